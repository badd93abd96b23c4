package utils

import (
	"fmt"
	"log"

	"github.com/skip2/go-qrcode"
)

// GenerateReferralLink генерирует реферальную ссылку для аккаунта.
// botUsername должен передаваться, так как это конфигурационное значение.
func GenerateReferralLink(botUsername string, refCode string) (string, error) {
	if botUsername == "" {
		log.Println("GenerateReferralLink: botUsername не предоставлен.")
		return "", fmt.Errorf("имя пользователя бота не настроено")
	}
	if refCode == "" {
		log.Println("GenerateReferralLink: пустой реферальный код.")
		return "", fmt.Errorf("реферальный код не задан")
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, refCode), nil
}

// GenerateQRCode генерирует QR-код для реферальной ссылки.
// botUsername также нужен здесь, так как он используется в GenerateReferralLink.
func GenerateQRCode(botUsername string, refCode string) ([]byte, error) {
	link, err := GenerateReferralLink(botUsername, refCode)
	if err != nil {
		log.Printf("GenerateQRCode: ошибка генерации реферальной ссылки для QR-кода (код %s): %v", refCode, err)
		return nil, err
	}

	// qrcode.Medium - уровень коррекции ошибок, 256 - размер QR-кода в пикселях.
	qrBytes, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		log.Printf("GenerateQRCode: ошибка кодирования QR-кода для ссылки '%s': %v", link, err)
		return nil, err
	}
	return qrBytes, nil
}
