package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"earningbot/internal/constants"
	"earningbot/internal/models"
)

func TestEnsureAccountCreatesOnce(t *testing.T) {
	set := models.RecordSet{}

	acc := EnsureAccount(set, 100)
	require.NotNil(t, acc)
	require.EqualValues(t, 0, acc.Balance)
	require.EqualValues(t, 0, acc.ReferralCount)
	require.Nil(t, acc.ReferredBy)
	require.Len(t, acc.ReferralCode, constants.REFERRAL_CODE_LENGTH)

	// Повторный вызов не должен менять аккаунт и перегенерировать код.
	again := EnsureAccount(set, 100)
	require.Same(t, acc, again)
	require.Equal(t, acc.ReferralCode, again.ReferralCode)
	require.Len(t, set, 1)
}

func TestReferralCodesAreDistinct(t *testing.T) {
	set := models.RecordSet{}
	seen := map[string]bool{}

	for id := int64(1); id <= 500; id++ {
		acc := EnsureAccount(set, id)
		require.Len(t, acc.ReferralCode, constants.REFERRAL_CODE_LENGTH)
		require.False(t, seen[acc.ReferralCode], "код '%s' выдан дважды", acc.ReferralCode)
		seen[acc.ReferralCode] = true
	}
}

func TestLinkReferral(t *testing.T) {
	set := models.RecordSet{}
	a := EnsureAccount(set, 1)
	EnsureAccount(set, 2)

	referrerID, linked := LinkReferral(set, 2, a.ReferralCode)
	require.True(t, linked)
	require.EqualValues(t, 1, referrerID)
	require.NotNil(t, set[2].ReferredBy)
	require.EqualValues(t, 1, *set[2].ReferredBy)
	require.EqualValues(t, 1, a.ReferralCount)
	require.EqualValues(t, constants.REFERRAL_BONUS, a.Balance)

	// Повторная привязка — no-op, даже с другим валидным кодом.
	EnsureAccount(set, 3)
	_, linked = LinkReferral(set, 2, set[3].ReferralCode)
	require.False(t, linked)
	require.EqualValues(t, 1, *set[2].ReferredBy)
	require.EqualValues(t, 1, a.ReferralCount)
	require.EqualValues(t, constants.REFERRAL_BONUS, a.Balance)
}

func TestLinkReferralSelfAndUnknownCode(t *testing.T) {
	set := models.RecordSet{}
	a := EnsureAccount(set, 1)

	// Собственный код не привязывается.
	_, linked := LinkReferral(set, 1, a.ReferralCode)
	require.False(t, linked)
	require.Nil(t, a.ReferredBy)
	require.EqualValues(t, 0, a.ReferralCount)

	// Несуществующий код — no-op.
	_, linked = LinkReferral(set, 1, "nosuch00")
	require.False(t, linked)
	require.Nil(t, a.ReferredBy)

	// Пустой код — no-op.
	_, linked = LinkReferral(set, 1, "")
	require.False(t, linked)
}

func TestReferralCountMatchesFanIn(t *testing.T) {
	set := models.RecordSet{}
	a := EnsureAccount(set, 1)
	for id := int64(2); id <= 6; id++ {
		EnsureAccount(set, id)
		_, linked := LinkReferral(set, id, a.ReferralCode)
		require.True(t, linked)
	}

	fanIn := 0
	for _, acc := range set {
		if acc.ReferredBy != nil && *acc.ReferredBy == 1 {
			fanIn++
		}
	}
	require.EqualValues(t, fanIn, a.ReferralCount)
	require.EqualValues(t, 5*constants.REFERRAL_BONUS, a.Balance)
}

func TestEarnCooldown(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name          string
		lastEarnAt    int64
		wantCredited  bool
		wantRemaining int64
	}{
		{"никогда не зарабатывал", 0, true, 0},
		{"30 секунд назад", now.Unix() - 30, false, 30},
		{"59 секунд назад", now.Unix() - 59, false, 1},
		{"ровно 60 секунд назад (граница включительно)", now.Unix() - 60, true, 0},
		{"давно", now.Unix() - 3600, true, 0},
	}

	for _, ts := range tests {
		set := models.RecordSet{}
		acc := EnsureAccount(set, 7)
		acc.LastEarnAt = ts.lastEarnAt
		acc.Balance = 5

		outcome := Earn(set, 7, now)
		require.Equal(t, ts.wantCredited, outcome.Credited, ts.name)
		if ts.wantCredited {
			require.EqualValues(t, 5+constants.EARN_REWARD, outcome.NewBalance, ts.name)
			require.EqualValues(t, now.Unix(), acc.LastEarnAt, ts.name)
		} else {
			require.EqualValues(t, ts.wantRemaining, outcome.Remaining, ts.name)
			require.EqualValues(t, 5, acc.Balance, ts.name)
			require.EqualValues(t, ts.lastEarnAt, acc.LastEarnAt, ts.name)
		}
	}
}

func TestEarnTwiceWithinWindow(t *testing.T) {
	set := models.RecordSet{}
	now := time.Unix(1_700_000_000, 0)

	first := Earn(set, 8, now)
	require.True(t, first.Credited)

	second := Earn(set, 8, now.Add(30*time.Second))
	require.False(t, second.Credited)
	require.EqualValues(t, 30, second.Remaining)
	require.EqualValues(t, first.NewBalance, set[8].Balance)

	third := Earn(set, 8, now.Add(60*time.Second))
	require.True(t, third.Credited)
	require.EqualValues(t, 2*constants.EARN_REWARD, third.NewBalance)
}

func TestBalanceOf(t *testing.T) {
	set := models.RecordSet{}
	acc := EnsureAccount(set, 9)
	acc.Balance = 42
	acc.ReferralCount = 3

	balance, referrals := BalanceOf(set, 9)
	require.EqualValues(t, 42, balance)
	require.EqualValues(t, 3, referrals)

	// Неизвестный аккаунт — нули, без создания.
	balance, referrals = BalanceOf(set, 10)
	require.EqualValues(t, 0, balance)
	require.EqualValues(t, 0, referrals)
	require.Len(t, set, 1)
}

func TestLeaderboard(t *testing.T) {
	set := models.RecordSet{}
	for id, balance := range map[int64]int64{1: 300, 2: 100, 3: 200} {
		EnsureAccount(set, id).Balance = balance
	}

	top := Leaderboard(set, 2)
	require.Len(t, top, 2)
	require.EqualValues(t, 1, top[0].ChatID)
	require.EqualValues(t, 300, top[0].Balance)
	require.EqualValues(t, 3, top[1].ChatID)
	require.EqualValues(t, 200, top[1].Balance)

	// Повторный вызов при неизменном состоянии даёт тот же результат.
	require.Equal(t, top, Leaderboard(set, 2))

	full := Leaderboard(set, 10)
	require.Len(t, full, 3)
	require.EqualValues(t, 100, full[2].Balance)
}

func TestLeaderboardTieBreak(t *testing.T) {
	set := models.RecordSet{}
	for _, id := range []int64{5, 3, 9} {
		EnsureAccount(set, id).Balance = 50
	}

	top := Leaderboard(set, 3)
	require.EqualValues(t, 3, top[0].ChatID)
	require.EqualValues(t, 5, top[1].ChatID)
	require.EqualValues(t, 9, top[2].ChatID)
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		wantOK      bool
		wantAmount  int64
		wantDeficit int64
	}{
		{"нулевой баланс", 0, false, 0, 100},
		{"ниже минимума", 40, false, 0, 60},
		{"ровно минимум", 100, true, 100, 0},
		{"выше минимума", 150, true, 150, 0},
	}

	for _, ts := range tests {
		set := models.RecordSet{}
		EnsureAccount(set, 11).Balance = ts.balance

		outcome := Withdraw(set, 11)
		require.Equal(t, ts.wantOK, outcome.Withdrawn, ts.name)
		if ts.wantOK {
			require.EqualValues(t, ts.wantAmount, outcome.Amount, ts.name)
			require.EqualValues(t, 0, set[11].Balance, ts.name)
		} else {
			require.EqualValues(t, ts.wantDeficit, outcome.Deficit, ts.name)
			require.EqualValues(t, ts.balance, set[11].Balance, ts.name)
		}
	}
}
