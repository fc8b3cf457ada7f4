package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tradebio/profile-hub/internal/models"
)

func TestDeriveState(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	acc := func(trialStart time.Time, trialDays int) *models.Account {
		return &models.Account{
			UID:        "uid-1",
			Username:   "testuser",
			Slug:       "testuser",
			TrialStart: trialStart,
			TrialDays:  trialDays,
			CreatedAt:  trialStart,
		}
	}
	rec := func(status string) *models.SubscriptionRecord {
		return &models.SubscriptionRecord{
			AccountUID: "uid-1",
			Provider:   "paypal",
			Status:     status,
		}
	}

	tests := []struct {
		name         string
		acc          *models.Account
		rec          *models.SubscriptionRecord
		wantState    string
		wantDaysLeft int
	}{
		{
			name:         "неизвестный аккаунт",
			acc:          nil,
			rec:          nil,
			wantState:    models.StateNotFound,
			wantDaysLeft: 0,
		},
		{
			name:         "свежий аккаунт без подписки",
			acc:          acc(now, 14),
			rec:          nil,
			wantState:    models.StateTrial,
			wantDaysLeft: 14,
		},
		{
			name:         "середина пробного периода",
			acc:          acc(now.Add(-7*day), 14),
			rec:          nil,
			wantState:    models.StateTrial,
			wantDaysLeft: 7,
		},
		{
			name:         "пробный период истёк",
			acc:          acc(now.Add(-14*day), 14),
			rec:          nil,
			wantState:    models.StateExpired,
			wantDaysLeft: 0,
		},
		{
			name:         "активная подписка побеждает истёкший пробный период",
			acc:          acc(now.Add(-100*day), 14),
			rec:          rec(models.SubscriptionActive),
			wantState:    models.StateActive,
			wantDaysLeft: 0,
		},
		{
			name:         "активная подписка внутри пробного окна",
			acc:          acc(now.Add(-2*day), 14),
			rec:          rec(models.SubscriptionActive),
			wantState:    models.StateActive,
			wantDaysLeft: 0,
		},
		{
			name:         "просроченный платёж внутри пробного окна",
			acc:          acc(now.Add(-4*day), 14),
			rec:          rec(models.SubscriptionPastDue),
			wantState:    models.StatePastDue,
			wantDaysLeft: 10,
		},
		{
			name:         "просроченный платёж после пробного окна",
			acc:          acc(now.Add(-30*day), 14),
			rec:          rec(models.SubscriptionPastDue),
			wantState:    models.StatePastDue,
			wantDaysLeft: 0,
		},
		{
			name:         "приостановленная провайдером подписка",
			acc:          acc(now.Add(-5*day), 14),
			rec:          rec("suspended"),
			wantState:    models.StatePastDue,
			wantDaysLeft: 9,
		},
		{
			name:         "отменённая подписка внутри пробного окна",
			acc:          acc(now.Add(-3*day), 14),
			rec:          rec(models.SubscriptionInactive),
			wantState:    models.StateTrial,
			wantDaysLeft: 11,
		},
		{
			name:         "отменённая подписка после пробного окна",
			acc:          acc(now.Add(-20*day), 14),
			rec:          rec(models.SubscriptionInactive),
			wantState:    models.StateExpired,
			wantDaysLeft: 0,
		},
		{
			name: "нулевой trial_days подменяется значением по умолчанию",
			acc: &models.Account{
				UID:        "uid-1",
				TrialStart: now.Add(-1 * day),
				TrialDays:  0,
			},
			rec:          nil,
			wantState:    models.StateTrial,
			wantDaysLeft: models.DefaultTrialDays - 1,
		},
		{
			name: "пустой trial_start подменяется created_at",
			acc: &models.Account{
				UID:       "uid-1",
				TrialDays: 14,
				CreatedAt: now.Add(-10 * day),
			},
			rec:          nil,
			wantState:    models.StateTrial,
			wantDaysLeft: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveState(now, tt.acc, tt.rec)
			require.Equal(t, tt.wantState, got.State)
			require.Equal(t, tt.wantDaysLeft, got.DaysLeft)
		})
	}
}

// Сценарий: отмена во время пробного периода не выключает страницу сразу,
// состояние деградирует только после закрытия пробного окна.
func TestDeriveState_CancellationDuringTrial(t *testing.T) {
	day := 24 * time.Hour
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	acc := &models.Account{UID: "uid-1", TrialStart: start, TrialDays: 14, CreatedAt: start}
	rec := &models.SubscriptionRecord{AccountUID: "uid-1", Status: models.SubscriptionInactive}

	inTrial := DeriveState(start.Add(5*day), acc, rec)
	require.Equal(t, models.StateTrial, inTrial.State)
	require.Equal(t, 9, inTrial.DaysLeft)

	afterTrial := DeriveState(start.Add(15*day), acc, rec)
	require.Equal(t, models.StateExpired, afterTrial.State)
}
