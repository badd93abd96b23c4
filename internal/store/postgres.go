package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"earningbot/internal/constants"
	"earningbot/internal/models"
)

// PostgresStore хранит набор аккаунтов в таблице accounts.
// Семантика та же, что у файлового хранилища: Load читает весь набор,
// Save записывает весь набор одной транзакцией (аккаунты не удаляются,
// поэтому запись — это upsert каждой строки).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore открывает соединение и создает таблицу, если её нет.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), constants.STORE_TIMEOUT)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка проверки соединения с базой данных: %w", err)
	}

	createSQL := `
        CREATE TABLE IF NOT EXISTS accounts (
            chat_id BIGINT PRIMARY KEY,
            balance BIGINT NOT NULL DEFAULT 0,
            last_earn_at BIGINT NOT NULL DEFAULT 0,
            referral_count BIGINT NOT NULL DEFAULT 0,
            referral_code TEXT NOT NULL UNIQUE,
            referred_by BIGINT
        )`
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания таблицы accounts: %w", err)
	}

	log.Println("Успешное подключение к базе данных.")
	return &PostgresStore{db: db}, nil
}

// Load читает все аккаунты. Ошибка чтения даёт пустой набор с записью в лог —
// поведение согласовано с файловым хранилищем.
func (ps *PostgresStore) Load() (models.RecordSet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.STORE_TIMEOUT)
	defer cancel()

	rows, err := ps.db.QueryContext(ctx,
		`SELECT chat_id, balance, last_earn_at, referral_count, referral_code, referred_by FROM accounts`)
	if err != nil {
		log.Printf("PostgresStore.Load: ошибка чтения аккаунтов: %v. Возвращён пустой набор.", err)
		return models.RecordSet{}, nil
	}
	defer rows.Close()

	set := models.RecordSet{}
	for rows.Next() {
		var chatID int64
		var acc models.Account
		var referredBy sql.NullInt64
		if err := rows.Scan(&chatID, &acc.Balance, &acc.LastEarnAt, &acc.ReferralCount, &acc.ReferralCode, &referredBy); err != nil {
			log.Printf("PostgresStore.Load: ошибка сканирования строки: %v", err)
			continue
		}
		if referredBy.Valid {
			ref := referredBy.Int64
			acc.ReferredBy = &ref
		}
		set[chatID] = &acc
	}
	if err := rows.Err(); err != nil {
		log.Printf("PostgresStore.Load: ошибка итерации: %v. Возвращён пустой набор.", err)
		return models.RecordSet{}, nil
	}
	return set, nil
}

// Save записывает весь набор одной транзакцией.
func (ps *PostgresStore) Save(set models.RecordSet) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.STORE_TIMEOUT)
	defer cancel()

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO accounts (chat_id, balance, last_earn_at, referral_count, referral_code, referred_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (chat_id) DO UPDATE SET
            balance = EXCLUDED.balance,
            last_earn_at = EXCLUDED.last_earn_at,
            referral_count = EXCLUDED.referral_count,
            referred_by = EXCLUDED.referred_by`)
	if err != nil {
		return fmt.Errorf("ошибка подготовки upsert: %w", err)
	}
	defer stmt.Close()

	for chatID, acc := range set {
		var referredBy sql.NullInt64
		if acc.ReferredBy != nil {
			referredBy = sql.NullInt64{Int64: *acc.ReferredBy, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, chatID, acc.Balance, acc.LastEarnAt, acc.ReferralCount, acc.ReferralCode, referredBy); err != nil {
			return fmt.Errorf("ошибка записи аккаунта %d: %w", chatID, err)
		}
	}
	return tx.Commit()
}

// Close закрывает пул соединений.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
