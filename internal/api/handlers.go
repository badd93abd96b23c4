package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/xuri/excelize/v2"
)

// webhookResponse — ответ транспорту на доставку обновления.
type webhookResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// WebhookHandler принимает обновления Telegram.
// Невалидное тело — ошибка клиента, никаких мутаций леджера.
// Валидное обновление подтверждается сразу, обработка идёт в горутине:
// Telegram не должен ждать завершения цикла load-mutate-save.
func WebhookHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil || len(body) == 0 {
			log.Printf("[WEBHOOK] Ошибка чтения тела запроса: %v", err)
			writeJSON(w, http.StatusBadRequest, webhookResponse{OK: false, Error: "invalid update"})
			return
		}

		var update tgbotapi.Update
		if err := json.Unmarshal(body, &update); err != nil {
			log.Printf("[WEBHOOK] Невалидное обновление: %v", err)
			writeJSON(w, http.StatusBadRequest, webhookResponse{OK: false, Error: "invalid update"})
			return
		}
		if update.Message == nil && update.CallbackQuery == nil {
			// Структурно корректный, но не поддерживаемый тип события.
			log.Printf("[WEBHOOK] Обновление без message и callback_query (UpdateID=%d). Игнорируется.", update.UpdateID)
			writeJSON(w, http.StatusOK, webhookResponse{OK: true})
			return
		}

		writeJSON(w, http.StatusOK, webhookResponse{OK: true})

		// Обработка после ответа транспорту; сериализацию обеспечивает BotHandler.
		go func(u tgbotapi.Update) {
			if u.Message != nil {
				deps.Bot.HandleMessage(u)
			} else {
				deps.Bot.HandleCallback(u)
			}
		}(update)
	}
}

// HealthHandler возвращает статус сервиса и метку времени.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().Format("2006-01-02 15:04:05"),
			"service":   "Earning Bot Webhook",
		})
	}
}

// SetupHandler регистрирует или снимает вебхук.
// Доступ только с токеном бота: ?token=...&url=... устанавливает вебхук,
// без url — удаляет его.
func SetupHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" || token != deps.Config.TelegramToken {
			log.Printf("[SETUP] Отклонён запрос с неверным токеном от %s", r.RemoteAddr)
			http.Error(w, "Invalid token", http.StatusForbidden)
			return
		}

		url := r.URL.Query().Get("url")
		if url != "" {
			if err := deps.BotClient.SetWebhook(url); err != nil {
				log.Printf("[SETUP] Ошибка установки вебхука '%s': %v", url, err)
				http.Error(w, "Failed to set webhook", http.StatusBadGateway)
				return
			}
			fmt.Fprintf(w, "Webhook set to: %s", url)
			return
		}

		if err := deps.BotClient.DeleteWebhook(); err != nil {
			log.Printf("[SETUP] Ошибка удаления вебхука: %v", err)
			http.Error(w, "Failed to delete webhook", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "Webhook deleted.")
	}
}

// ExportHandler выгружает весь леджер в .xlsx.
// Защищено тем же общим секретом, что и /setup.
func ExportHandler(deps ApiDependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" || token != deps.Config.TelegramToken {
			http.Error(w, "Invalid token", http.StatusForbidden)
			return
		}

		set, err := deps.Store.Load()
		if err != nil {
			log.Printf("[EXPORT] Ошибка загрузки набора аккаунтов: %v", err)
			http.Error(w, "Failed to load accounts", http.StatusInternalServerError)
			return
		}

		f := excelize.NewFile()
		sheetName := "Accounts"
		index, _ := f.NewSheet(sheetName)
		f.DeleteSheet("Sheet1")
		f.SetActiveSheet(index)

		headers := []string{"Chat ID", "Balance", "Referrals", "Referral Code", "Referred By", "Last Earn At"}
		for i, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheetName, cell, header)
		}

		rowIndex := 2
		for chatID, acc := range set {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), chatID)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), acc.Balance)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), acc.ReferralCount)
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), acc.ReferralCode)
			if acc.ReferredBy != nil {
				f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), *acc.ReferredBy)
			}
			if acc.LastEarnAt != 0 {
				f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), time.Unix(acc.LastEarnAt, 0).UTC().Format("2006-01-02 15:04:05"))
			}
			rowIndex++
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="accounts.xlsx"`)
		if err := f.Write(w); err != nil {
			log.Printf("[EXPORT] Ошибка записи xlsx: %v", err)
		}
	}
}
