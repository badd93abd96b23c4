package constants

import "time"

// Ledger parameters
// Параметры леджера
const (
	// EARN_REWARD — сколько очков даёт одно нажатие "Earn".
	EARN_REWARD = 10
	// EARN_COOLDOWN — минимальный интервал между начислениями.
	// Граница включительная: ровно 60 секунд — уже можно.
	EARN_COOLDOWN = 60 * time.Second
	// REFERRAL_BONUS — бонус пригласившему за нового реферала.
	REFERRAL_BONUS = 50
	// MIN_WITHDRAWAL — минимальный баланс для вывода.
	MIN_WITHDRAWAL = 100
	// REFERRAL_CODE_LENGTH — длина реферального кода.
	REFERRAL_CODE_LENGTH = 8
	// LEADERBOARD_SIZE — сколько строк показываем в таблице лидеров.
	LEADERBOARD_SIZE = 5
)

// Callback tags of the main keyboard buttons
// Теги коллбэков кнопок главной клавиатуры
const (
	CALLBACK_EARN        = "earn"
	CALLBACK_BALANCE     = "balance"
	CALLBACK_LEADERBOARD = "leaderboard"
	CALLBACK_REFERRALS   = "referrals"
	CALLBACK_WITHDRAW    = "withdraw"
	CALLBACK_HELP        = "help"
)

// Timeouts for outbound I/O
// Таймауты для исходящего I/O
const (
	// NOTIFIER_TIMEOUT — таймаут HTTP-клиента Telegram API.
	// Медленный транспорт не должен блокировать обработку событий.
	NOTIFIER_TIMEOUT = 10 * time.Second
	// STORE_TIMEOUT — таймаут операций хранилища (используется Postgres-хранилищем).
	STORE_TIMEOUT = 5 * time.Second
)
