// internal/config/config.go
package config

import (
	"log"
	"os"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	TelegramToken string
	BotUsername   string
	AppEnv        string
	WebhookURL    string
	DatabaseURL   string
	UsersFile     string
	ErrorLogFile  string
	Port          string
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
		BotUsername:   os.Getenv("BOT_USERNAME"),
		AppEnv:        os.Getenv("ENV"),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		UsersFile:     os.Getenv("USERS_FILE"),
		ErrorLogFile:  os.Getenv("ERROR_LOG"),
		Port:          os.Getenv("PORT"),
	}

	if cfg.TelegramToken == "" {
		log.Println("Критическая ошибка: TELEGRAM_APITOKEN не установлен.")
	}
	if cfg.BotUsername == "" {
		log.Println("Предупреждение: BOT_USERNAME не установлен. Реферальные ссылки не будут работать.")
	}
	if cfg.WebhookURL == "" {
		log.Println("Предупреждение: WEBHOOK_URL не установлен. Вебхук не будет зарегистрирован при старте.")
	}
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL не установлен, используется файловое хранилище.")
	}
	if cfg.UsersFile == "" {
		cfg.UsersFile = "users.json"
	}
	if cfg.ErrorLogFile == "" {
		cfg.ErrorLogFile = "error.log"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}
