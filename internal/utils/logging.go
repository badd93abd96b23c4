package utils

import (
	"fmt"
	"io"
	"log"
	"os"
)

// InitErrorLog направляет стандартный лог одновременно в stderr и в
// append-only текстовый файл. Файл создается при первом запуске.
func InitErrorLog(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0664)
	if err != nil {
		return fmt.Errorf("не удалось открыть файл лога %s: %w", path, err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return nil
}
