package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"earningbot/internal/constants"
	"earningbot/internal/ledger"
	"earningbot/internal/utils"
)

// HandleCallback обрабатывает нажатия кнопок главной клавиатуры.
func (bh *BotHandler) HandleCallback(update tgbotapi.Update) {
	query := update.CallbackQuery
	if query == nil {
		log.Println("[CALLBACK_HANDLER] Получен пустой CallbackQuery.")
		return
	}
	if query.Message == nil {
		log.Printf("[CALLBACK_HANDLER] CallbackQuery без сообщения, ID=%s. Игнорируется.", query.ID)
		return
	}

	chatID := query.Message.Chat.ID
	data := query.Data
	queryID := query.ID

	log.Printf("[CALLBACK_HANDLER] START: ChatID=%d, Data='%s'", chatID, data)

	// Сначала гасим индикатор загрузки на кнопке — независимо от исхода леджера.
	// Answer the callback query first, independent of the ledger result.
	callbackAns := tgbotapi.NewCallback(queryID, "")
	if _, err := bh.Deps.BotClient.Request(callbackAns); err != nil {
		log.Printf("[CALLBACK_HANDLER] Ошибка ответа на CallbackQuery ID %s: %v. Продолжаем.", queryID, err)
	}

	var (
		msgText string
		withQR  bool
	)

	bh.mu.Lock()
	set, err := bh.Deps.Store.Load()
	if err != nil {
		log.Printf("[CALLBACK_HANDLER] Ошибка загрузки набора аккаунтов: %v", err)
		bh.mu.Unlock()
		return
	}

	acc := ledger.EnsureAccount(set, chatID)

	switch data {
	case constants.CALLBACK_EARN:
		outcome := ledger.Earn(set, chatID, time.Now())
		if !outcome.Credited {
			msgText = fmt.Sprintf("⏳ Please wait %d seconds before earning again!", outcome.Remaining)
		} else {
			msgText = fmt.Sprintf("✅ You earned %d points!\nNew balance: %d", constants.EARN_REWARD, outcome.NewBalance)
		}

	case constants.CALLBACK_BALANCE:
		balance, referrals := ledger.BalanceOf(set, chatID)
		msgText = fmt.Sprintf("💳 Your Balance\nPoints: %d\nReferrals: %d", balance, referrals)

	case constants.CALLBACK_LEADERBOARD:
		top := ledger.Leaderboard(set, constants.LEADERBOARD_SIZE)
		var sb strings.Builder
		sb.WriteString("🏆 Top Earners\n")
		for i, entry := range top {
			sb.WriteString(fmt.Sprintf("%d. User %d: %d points\n", i+1, entry.ChatID, entry.Balance))
		}
		msgText = sb.String()

	case constants.CALLBACK_REFERRALS:
		link := ""
		if bh.Deps.Config.BotUsername != "" {
			link, _ = utils.GenerateReferralLink(bh.Deps.Config.BotUsername, acc.ReferralCode)
		}
		msgText = fmt.Sprintf(
			"👥 Referral System\nYour code: <b>%s</b>\nReferrals: %d\nInvite link: %s\n%d points per referral!",
			acc.ReferralCode, acc.ReferralCount, link, constants.REFERRAL_BONUS)
		withQR = link != ""

	case constants.CALLBACK_WITHDRAW:
		outcome := ledger.Withdraw(set, chatID)
		if !outcome.Withdrawn {
			msgText = fmt.Sprintf("🏧 Withdrawal\nMinimum: %d points\nYour balance: %d\nNeed %d more points!",
				constants.MIN_WITHDRAWAL, acc.Balance, outcome.Deficit)
		} else {
			msgText = fmt.Sprintf("🏧 Withdrawal of %d points requested!\nOur team will process it soon.", outcome.Amount)
		}

	case constants.CALLBACK_HELP:
		msgText = fmt.Sprintf(
			"❓ Help\n💰 Earn: Get %d points/min\n👥 Refer: %d points/ref\n🏧 Withdraw: Min %d points\nUse buttons below to navigate!",
			constants.EARN_REWARD, constants.REFERRAL_BONUS, constants.MIN_WITHDRAWAL)

	default:
		// Неизвестный тег: аккаунт создан, мутаций нет, ответа нет.
		log.Printf("[CALLBACK_HANDLER] Неизвестный тег '%s' от ChatID=%d. Действий не требуется.", data, chatID)
	}

	saveErr := bh.Deps.Store.Save(set)
	refCode := acc.ReferralCode
	bh.mu.Unlock()

	if saveErr != nil {
		log.Printf("[CALLBACK_HANDLER] Ошибка сохранения набора аккаунтов для chatID %d: %v", chatID, saveErr)
		bh.sendMessage(chatID, "❌ Internal error, please try again later.")
		return
	}

	if msgText != "" {
		bh.sendWithMainKeyboard(chatID, msgText)
	}
	if withQR {
		bh.sendReferralQR(chatID, refCode)
	}

	log.Printf("[CALLBACK_HANDLER] END: ChatID=%d, Data='%s'", chatID, data)
}

// sendReferralQR отправляет QR-код реферальной ссылки.
// Ошибка генерации или доставки не фатальна: текстовый ответ уже ушёл.
func (bh *BotHandler) sendReferralQR(chatID int64, refCode string) {
	qrBytes, err := utils.GenerateQRCode(bh.Deps.Config.BotUsername, refCode)
	if err != nil {
		log.Printf("sendReferralQR: ошибка генерации QR-кода для chatID %d: %v", chatID, err)
		return
	}
	photoFileBytes := tgbotapi.FileBytes{
		Name:  "referral_qr.png",
		Bytes: qrBytes,
	}
	photoMsg := tgbotapi.NewPhoto(chatID, photoFileBytes)
	photoMsg.Caption = "Scan to join with your invite link"
	if _, err := bh.Deps.BotClient.Send(photoMsg); err != nil {
		log.Printf("sendReferralQR: ошибка отправки QR-кода для chatID %d: %v", chatID, err)
	}
}
