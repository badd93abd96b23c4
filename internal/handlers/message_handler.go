// Файл: internal/handlers/message_handler.go

package handlers

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"earningbot/internal/ledger"
)

// HandleMessage обрабатывает входящие текстовые сообщения от Telegram.
// Цикл load-mutate-save выполняется под мьютексом диспетчера; ответы
// отправляются уже после выхода из критической секции.
func (bh *BotHandler) HandleMessage(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	message := update.Message
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	log.Printf("[MESSAGE_HANDLER] ChatID=%d, Text='%s'", chatID, text)

	var (
		welcomeText string
		referrerID  int64
		linked      bool
	)

	bh.mu.Lock()
	set, err := bh.Deps.Store.Load()
	if err != nil {
		// Load сам деградирует до пустого набора; сюда попадать не должны.
		log.Printf("[MESSAGE_HANDLER] Ошибка загрузки набора аккаунтов: %v", err)
		bh.mu.Unlock()
		return
	}

	acc := ledger.EnsureAccount(set, chatID)

	if strings.HasPrefix(text, "/start") {
		// Необязательный аргумент после первого пробела — реферальный код.
		// Привязка выполняется только пока ReferredBy не установлен.
		parts := strings.Fields(text)
		if len(parts) > 1 {
			referrerID, linked = ledger.LinkReferral(set, chatID, parts[1])
		}
		welcomeText = fmt.Sprintf(
			"Welcome to Earning Bot!\nEarn points, invite friends, and withdraw your earnings!\nYour referral code: <b>%s</b>",
			acc.ReferralCode)
	}
	// Любой другой текст: аккаунт создан, мутаций нет, ответ не определён.

	saveErr := bh.Deps.Store.Save(set)
	bh.mu.Unlock()

	if saveErr != nil {
		// Результат события не сохранён — не врём пользователю успешным ответом.
		log.Printf("[MESSAGE_HANDLER] Ошибка сохранения набора аккаунтов для chatID %d: %v", chatID, saveErr)
		bh.sendMessage(chatID, "❌ Internal error, please try again later.")
		return
	}

	if linked {
		bh.sendMessage(referrerID, "🎉 New referral! +50 points bonus!")
	}
	if welcomeText != "" {
		bh.sendWithMainKeyboard(chatID, welcomeText)
	}
}
