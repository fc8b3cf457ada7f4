// Package trial содержит арифметику пробного периода.
// Дни считаются как целые прошедшие 24-часовые интервалы: частично
// прожитый день ещё не израсходован.
package trial

import "time"

// DaysUsed возвращает число полных суток между start и now.
// Если start не раньше now, израсходовано 0 дней.
func DaysUsed(now, start time.Time) int {
	if !start.Before(now) {
		return 0
	}
	return int(now.Sub(start).Hours() / 24)
}

// DaysLeft возвращает остаток пробных дней, не опускаясь ниже нуля.
func DaysLeft(now, start time.Time, trialDays int) int {
	left := trialDays - DaysUsed(now, start)
	if left < 0 {
		return 0
	}
	return left
}
