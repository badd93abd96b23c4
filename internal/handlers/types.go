package handlers

import (
	"sync"

	"earningbot/internal/config"
	"earningbot/internal/store"
	"earningbot/internal/telegram_api"
)

// HandlerDependencies содержит все зависимости, необходимые для обработчиков.
// HandlerDependencies contains all dependencies required for handlers.
type HandlerDependencies struct {
	Config    *config.Config
	BotClient telegram_api.Notifier
	Store     store.Store
}

// BotHandler инкапсулирует логику обработки сообщений и коллбэков.
// Мьютекс сериализует цикл load-mutate-save каждого события: вебхуки
// доставляются конкурентно, а единица персистентности — весь набор,
// поэтому без общей критической секции одно сохранение молча затирало бы
// мутации другого. Исходящие сообщения отправляются уже вне секции.
// BotHandler encapsulates message/callback handling. The mutex serializes
// each event's load-mutate-save cycle; replies go out after the critical section.
type BotHandler struct {
	Deps HandlerDependencies
	mu   sync.Mutex
}

// NewBotHandler создает новый экземпляр BotHandler.
// NewBotHandler creates a new instance of BotHandler.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.BotClient == nil || deps.Store == nil {
		// Это критическая ошибка конфигурации, приложение не сможет работать корректно.
		// This is a critical configuration error; the application will not work correctly.
		panic("Не все зависимости для BotHandler были предоставлены.")
	}
	return &BotHandler{Deps: deps}
}
