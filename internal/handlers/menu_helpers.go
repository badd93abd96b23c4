package handlers

import (
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"earningbot/internal/constants"
)

// --- Вспомогательные функции для отправки сообщений ---
// --- Helper functions for sending messages ---

// MainKeyboard возвращает стандартную клавиатуру из шести кнопок (сетка 2x3).
func MainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Earn", constants.CALLBACK_EARN),
			tgbotapi.NewInlineKeyboardButtonData("💳 Balance", constants.CALLBACK_BALANCE),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", constants.CALLBACK_LEADERBOARD),
			tgbotapi.NewInlineKeyboardButtonData("👥 Referrals", constants.CALLBACK_REFERRALS),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏧 Withdraw", constants.CALLBACK_WITHDRAW),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", constants.CALLBACK_HELP),
		),
	)
}

// sendWithMainKeyboard отправляет текст с главной клавиатурой.
// Ошибка доставки логируется и не считается фатальной: событие уже обработано.
func (bh *BotHandler) sendWithMainKeyboard(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = MainKeyboard()
	if _, err := bh.Deps.BotClient.Send(msg); err != nil {
		log.Printf("Ошибка отправки сообщения с клавиатурой для chatID %d: %v", chatID, err)
	}
}

// sendMessage отправляет простое текстовое сообщение без клавиатуры.
func (bh *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := bh.Deps.BotClient.Send(msg); err != nil {
		log.Printf("Ошибка отправки сообщения для chatID %d: %v", chatID, err)
	}
}
