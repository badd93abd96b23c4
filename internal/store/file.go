package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"earningbot/internal/models"
)

// FileStore хранит весь набор аккаунтов в одном JSON-документе.
// FileStore keeps the whole record set in a single JSON document.
type FileStore struct {
	path string
}

// NewFileStore создает файловое хранилище по указанному пути.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load читает документ целиком. Отсутствующий файл — нормальная ситуация
// первого запуска: возвращается пустой набор. Повреждённый документ тоже
// даёт пустой набор, но с записью в лог — терять состояние молча нельзя.
func (fs *FileStore) Load() (models.RecordSet, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.RecordSet{}, nil
		}
		log.Printf("FileStore.Load: ошибка чтения %s: %v. Возвращён пустой набор.", fs.path, err)
		return models.RecordSet{}, nil
	}

	var set models.RecordSet
	if err := json.Unmarshal(data, &set); err != nil {
		log.Printf("FileStore.Load: ошибка десериализации %s: %v. Возвращён пустой набор.", fs.path, err)
		return models.RecordSet{}, nil
	}
	if set == nil {
		set = models.RecordSet{}
	}
	return set, nil
}

// Save записывает документ во временный файл и атомарно подменяет им основной.
// Читатель никогда не увидит частично записанный документ.
func (fs *FileStore) Save(set models.RecordSet) error {
	data, err := json.MarshalIndent(set, "", "    ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации набора аккаунтов: %w", err)
	}

	tmpPath := fs.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0664); err != nil {
		return fmt.Errorf("ошибка записи временного файла %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка подмены %s: %w", fs.path, err)
	}
	return nil
}

// Close для файлового хранилища ничего не делает.
func (fs *FileStore) Close() error { return nil }
