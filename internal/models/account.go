package models

// Account represents the persisted state of one bot user.
// Account представляет сохраняемое состояние одного пользователя бота.
// JSON-теги совпадают с форматом документа users.json.
type Account struct {
	// Balance — неотрицательный баланс очков.
	Balance int64 `json:"balance"`
	// LastEarnAt — время последнего успешного начисления (unix-секунды, 0 = никогда).
	LastEarnAt int64 `json:"last_earn"`
	// ReferralCount — сколько аккаунтов привёл этот пользователь.
	ReferralCount int64 `json:"referrals"`
	// ReferralCode — уникальный 8-символьный код, выдаётся один раз при создании.
	ReferralCode string `json:"ref_code"`
	// ReferredBy — chat_id пригласившего; устанавливается не более одного раза.
	ReferredBy *int64 `json:"referred_by"`
}

// RecordSet — полный набор аккаунтов, ключ — chat_id.
// Единица персистентности: набор сохраняется целиком, частичных записей нет.
// RecordSet is the full set of accounts keyed by chat_id; it is persisted as a whole.
type RecordSet map[int64]*Account

// LeaderboardEntry — одна строка таблицы лидеров.
type LeaderboardEntry struct {
	ChatID  int64
	Balance int64
}
