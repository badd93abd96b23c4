package api

import (
	"github.com/go-chi/chi/v5"

	"earningbot/internal/config"
	"earningbot/internal/handlers"
	"earningbot/internal/store"
	"earningbot/internal/telegram_api"
)

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Config    *config.Config
	Bot       *handlers.BotHandler
	BotClient *telegram_api.BotClient
	Store     store.Store
}

// SetupRoutes настраивает все маршруты для API.
func SetupRoutes(r *chi.Mux, deps ApiDependencies) {
	// Основной вебхук Telegram.
	r.Post("/webhook", WebhookHandler(deps))

	// Health-проба для хостинга.
	r.Get("/health", HealthHandler())

	// Регистрация/снятие вебхука, защищено общим секретом (токеном бота).
	r.Get("/setup", SetupHandler(deps))

	// Выгрузка леджера в Excel, защищено тем же секретом.
	r.Get("/export", ExportHandler(deps))
}
