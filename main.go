package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"earningbot/internal/api"
	"earningbot/internal/config"
	"earningbot/internal/handlers"
	"earningbot/internal/store"
	"earningbot/internal/telegram_api"
	"earningbot/internal/utils"
)

func main() {
	// --- Блок инициализации ---
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	if err := utils.InitErrorLog(cfg.ErrorLogFile); err != nil {
		log.Printf("Предупреждение: не удалось открыть файл лога: %v. Лог только в stderr.", err)
	}

	recordStore, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать хранилище: %v", err)
	}
	defer recordStore.Close()

	err = telegram_api.InitBot(cfg.TelegramToken, cfg.AppEnv == "dev")
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать Telegram бота: %v", err)
	}

	handlerDeps := handlers.HandlerDependencies{
		Config:    cfg,
		BotClient: telegram_api.Client,
		Store:     recordStore,
	}
	botHandler := handlers.NewBotHandler(handlerDeps)

	// Саморегистрация вебхука при старте, если URL задан.
	if cfg.WebhookURL != "" {
		if err := telegram_api.Client.SetWebhook(cfg.WebhookURL); err != nil {
			log.Printf("Предупреждение: не удалось установить вебхук при старте: %v", err)
		}
	}

	// --- Настройка роутера и Middleware ---
	apiRouter := chi.NewRouter()

	apiRouter.Use(middleware.Logger)
	apiRouter.Use(middleware.Recoverer)
	apiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	apiDeps := api.ApiDependencies{
		Config:    cfg,
		Bot:       botHandler,
		BotClient: telegram_api.Client,
		Store:     recordStore,
	}
	api.SetupRoutes(apiRouter, apiDeps)

	// Информационная страница для GET /, чтобы избежать 404 в логах хостинга.
	apiRouter.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Earning Bot webhook service. See /health for status.\n"))
	})

	log.Printf("Запуск HTTP-сервера вебхука на порту %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, apiRouter); err != nil {
		log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
	}
}
