// Пакет ledger содержит чистую бизнес-логику над загруженным в память набором
// аккаунтов: создание, привязка рефералов, начисления, выборки и вывод средств.
// Никакого I/O — набор загружает и сохраняет вызывающая сторона.
// Package ledger holds the pure account-mutation logic over an in-memory
// record set: creation, referral linking, earning, queries and withdrawal.
package ledger

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"earningbot/internal/constants"
	"earningbot/internal/models"
)

// EnsureAccount возвращает аккаунт для chatID, создавая его при первом обращении.
// Повторный вызов для существующего аккаунта ничего не меняет (идемпотентно).
func EnsureAccount(set models.RecordSet, chatID int64) *models.Account {
	if acc, ok := set[chatID]; ok {
		return acc
	}
	acc := &models.Account{
		Balance:       0,
		LastEarnAt:    0,
		ReferralCount: 0,
		ReferralCode:  GenerateReferralCode(set, chatID),
		ReferredBy:    nil,
	}
	set[chatID] = acc
	log.Printf("Создан новый аккаунт: chatID=%d, refCode=%s", chatID, acc.ReferralCode)
	return acc
}

// GenerateReferralCode генерирует 8-символьный код, уникальный в пределах набора.
// Источник энтропии: chat_id + наносекунды + uuid, md5, первые 8 символов hex.
// Повторяем, пока не получим код, которого нет ни у одного аккаунта.
func GenerateReferralCode(set models.RecordSet, chatID int64) string {
	for attempt := 0; ; attempt++ {
		seed := fmt.Sprintf("%d%d%s%d", chatID, time.Now().UnixNano(), uuid.NewString(), attempt)
		sum := md5.Sum([]byte(seed))
		code := hex.EncodeToString(sum[:])[:constants.REFERRAL_CODE_LENGTH]
		if !codeTaken(set, code) {
			return code
		}
		log.Printf("GenerateReferralCode: коллизия кода '%s' (попытка %d), повтор.", code, attempt+1)
	}
}

func codeTaken(set models.RecordSet, code string) bool {
	for _, acc := range set {
		if acc.ReferralCode == code {
			return true
		}
	}
	return false
}

// LinkReferral привязывает новый аккаунт newID к владельцу кода code.
// Выполняется не более одного раза на аккаунт: если ReferredBy уже установлен,
// либо код не найден, либо код принадлежит самому newID — ничего не происходит.
// При успехе пригласивший получает +REFERRAL_BONUS к балансу и +1 к счётчику.
// Возвращает chat_id пригласившего и признак успешной привязки.
func LinkReferral(set models.RecordSet, newID int64, code string) (referrerID int64, linked bool) {
	acc, ok := set[newID]
	if !ok || acc.ReferredBy != nil || code == "" {
		return 0, false
	}
	for id, candidate := range set {
		if candidate.ReferralCode == code && id != newID {
			refID := id
			acc.ReferredBy = &refID
			candidate.ReferralCount++
			candidate.Balance += constants.REFERRAL_BONUS
			log.Printf("Реферал привязан: новый=%d, пригласивший=%d, бонус=%d", newID, id, constants.REFERRAL_BONUS)
			return id, true
		}
	}
	return 0, false
}

// EarnOutcome — результат попытки начисления.
type EarnOutcome struct {
	// Credited — true, если очки начислены.
	Credited bool
	// Remaining — сколько секунд осталось ждать (при отказе по кулдауну).
	Remaining int64
	// NewBalance — баланс после начисления (при успехе).
	NewBalance int64
}

// Earn начисляет фиксированную награду, если с последнего начисления прошло
// не меньше EARN_COOLDOWN. Граница включительная: ровно 60 секунд — можно.
func Earn(set models.RecordSet, chatID int64, now time.Time) EarnOutcome {
	acc := EnsureAccount(set, chatID)
	cooldown := int64(constants.EARN_COOLDOWN / time.Second)
	diff := now.Unix() - acc.LastEarnAt
	if diff < cooldown {
		return EarnOutcome{Credited: false, Remaining: cooldown - diff}
	}
	acc.Balance += constants.EARN_REWARD
	acc.LastEarnAt = now.Unix()
	return EarnOutcome{Credited: true, NewBalance: acc.Balance}
}

// BalanceOf возвращает баланс и число рефералов аккаунта. Чистое чтение.
func BalanceOf(set models.RecordSet, chatID int64) (balance, referralCount int64) {
	acc, ok := set[chatID]
	if !ok {
		return 0, 0
	}
	return acc.Balance, acc.ReferralCount
}

// Leaderboard возвращает до n аккаунтов, отсортированных по убыванию баланса.
// При равных балансах порядок определяется возрастанием chat_id — итерация
// по map в Go недетерминирована, поэтому ничья разрешается явно.
func Leaderboard(set models.RecordSet, n int) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(set))
	for id, acc := range set {
		entries = append(entries, models.LeaderboardEntry{ChatID: id, Balance: acc.Balance})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Balance != entries[j].Balance {
			return entries[i].Balance > entries[j].Balance
		}
		return entries[i].ChatID < entries[j].ChatID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// WithdrawOutcome — результат попытки вывода.
type WithdrawOutcome struct {
	// Withdrawn — true, если вывод выполнен.
	Withdrawn bool
	// Amount — выведенная сумма (весь баланс до обнуления).
	Amount int64
	// Deficit — сколько очков не хватает до минимума (при отказе).
	Deficit int64
}

// Withdraw выводит весь баланс, если он не меньше MIN_WITHDRAWAL, и обнуляет его.
// Чтение суммы и обнуление — один шаг; вызывающая сторона обязана держать
// событие внутри общей критической секции (см. dispatcher).
func Withdraw(set models.RecordSet, chatID int64) WithdrawOutcome {
	acc := EnsureAccount(set, chatID)
	if acc.Balance < constants.MIN_WITHDRAWAL {
		return WithdrawOutcome{Withdrawn: false, Deficit: constants.MIN_WITHDRAWAL - acc.Balance}
	}
	amount := acc.Balance
	acc.Balance = 0
	return WithdrawOutcome{Withdrawn: true, Amount: amount}
}
