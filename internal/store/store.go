// Пакет store отвечает за долговременное хранение набора аккаунтов.
// Набор сохраняется целиком: одна запись — один полный документ.
package store

import (
	"log"

	"earningbot/internal/config"
	"earningbot/internal/models"
)

// Store — контракт хранилища набора аккаунтов.
// Load возвращает пустой набор при отсутствии сохранённого состояния или при
// ошибке десериализации (ошибка логируется, но не фатальна).
// Save должен быть атомарным с точки зрения читателя: частично записанный
// документ наблюдаться не должен.
type Store interface {
	Load() (models.RecordSet, error)
	Save(set models.RecordSet) error
	Close() error
}

// Open выбирает реализацию хранилища по конфигурации:
// при заданном DATABASE_URL — Postgres, иначе — JSON-файл.
func Open(cfg *config.Config) (Store, error) {
	if cfg.DatabaseURL != "" {
		log.Println("Хранилище: PostgreSQL.")
		return NewPostgresStore(cfg.DatabaseURL)
	}
	log.Printf("Хранилище: файл %s.", cfg.UsersFile)
	return NewFileStore(cfg.UsersFile), nil
}
