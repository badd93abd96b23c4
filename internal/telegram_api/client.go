package telegram_api

import (
	"fmt"
	"log"
	"net/http"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"earningbot/internal/constants"
)

// Notifier — контракт доставки исходящих сообщений в чат-транспорт.
// Вынесен в интерфейс, чтобы диспетчер можно было тестировать без сети.
// Notifier is the outbound delivery contract; an interface so the dispatcher
// can be tested with a fake.
type Notifier interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// BotClient представляет собой обертку для Telegram Bot API.
// BotClient represents a wrapper for the Telegram Bot API.
type BotClient struct {
	api   *tgbotapi.BotAPI
	Debug bool
}

// Глобальный экземпляр бота для пакета.
// Global Bot instance for the package.
var Client *BotClient

// InitBot инициализирует Telegram бота для работы через вебхук.
// token - API токен бота, debug - режим отладки.
// HTTP-клиент получает ограниченный таймаут: недоступный Telegram API
// не должен подвешивать обработку события.
func InitBot(token string, debug bool) error {
	if token == "" {
		return fmt.Errorf("токен Telegram API не предоставлен")
	}

	httpClient := &http.Client{Timeout: constants.NOTIFIER_TIMEOUT}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return fmt.Errorf("ошибка инициализации Telegram Bot API: %w", err)
	}

	api.Debug = debug
	log.Printf("Авторизован как аккаунт %s", api.Self.UserName)

	Client = &BotClient{
		api:   api,
		Debug: debug,
	}
	return nil
}

// Send отправляет сообщение через BotClient.
// Send sends a message via BotClient.
func (bc *BotClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if bc == nil || bc.api == nil {
		return tgbotapi.Message{}, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			log.Printf("Отправка сообщения: ChatID=%d, Text='%.50s...'", msg.ChatID, msg.Text)
		} else if photoMsg, ok := c.(tgbotapi.PhotoConfig); ok {
			log.Printf("Отправка фото: ChatID=%d, Caption='%.50s...'", photoMsg.ChatID, photoMsg.Caption)
		} else {
			log.Printf("Отправка/запрос типа %T", c)
		}
	}
	return bc.api.Send(c)
}

// Request выполняет запрос через BotClient.
// Request performs a request via BotClient.
func (bc *BotClient) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if bc == nil || bc.api == nil {
		return nil, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		if cbAns, ok := c.(tgbotapi.CallbackConfig); ok {
			log.Printf("Запрос ответа на коллбэк: CallbackQueryID=%s", cbAns.CallbackQueryID)
		} else {
			log.Printf("Выполнение запроса типа %T", c)
		}
	}
	return bc.api.Request(c)
}

// SetWebhook регистрирует URL вебхука у Telegram.
func (bc *BotClient) SetWebhook(url string) error {
	if bc == nil || bc.api == nil {
		return fmt.Errorf("BotClient или его API не инициализирован")
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("ошибка конфигурации вебхука '%s': %w", url, err)
	}
	resp, err := bc.api.Request(wh)
	if err != nil {
		return fmt.Errorf("ошибка установки вебхука: %w", err)
	}
	log.Printf("Вебхук установлен: %s (описание ответа: %s)", url, resp.Description)
	return nil
}

// DeleteWebhook снимает регистрацию вебхука.
func (bc *BotClient) DeleteWebhook() error {
	if bc == nil || bc.api == nil {
		return fmt.Errorf("BotClient или его API не инициализирован")
	}
	deleteWebhookConfig := tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	}
	if _, err := bc.api.Request(deleteWebhookConfig); err != nil {
		return fmt.Errorf("ошибка удаления вебхука: %w", err)
	}
	log.Println("Вебхук успешно удален.")
	return nil
}
