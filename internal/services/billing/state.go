package billing

import (
	"time"

	"github.com/tradebio/profile-hub/internal/lib/trial"
	"github.com/tradebio/profile-hub/internal/models"
)

// DeriveState вычисляет производное состояние аккаунта.
// Политика одна для пути записи и пути чтения, поэтому просмотр страницы
// и доставка вебхука не могут разойтись в том, что значит "active".
//
// Правила, по порядку: активная оплаченная подписка всегда побеждает
// арифметику пробного периода; past_due/incomplete/suspended дают past_due
// с остатком пробных дней; открытое пробное окно даёт trial; иначе expired.
func DeriveState(now time.Time, acc *models.Account, rec *models.SubscriptionRecord) models.StateInfo {
	if acc == nil {
		return models.StateInfo{State: models.StateNotFound}
	}

	start := acc.TrialStart
	if start.IsZero() {
		start = acc.CreatedAt
	}
	if start.IsZero() {
		start = now
	}
	trialDays := acc.TrialDays
	if trialDays <= 0 {
		trialDays = models.DefaultTrialDays
	}
	daysLeft := trial.DaysLeft(now, start, trialDays)

	if rec != nil {
		switch rec.Status {
		case models.SubscriptionActive:
			return models.StateInfo{State: models.StateActive, DaysLeft: 0}
		case models.SubscriptionPastDue, "incomplete", "suspended":
			return models.StateInfo{State: models.StatePastDue, DaysLeft: daysLeft}
		}
	}

	if daysLeft > 0 {
		return models.StateInfo{State: models.StateTrial, DaysLeft: daysLeft}
	}
	return models.StateInfo{State: models.StateExpired}
}
