package domain

import (
	"fmt"
	"time"

	apperrors "chalkup/internal/platform/errors"
)

const DateLayout = "2006-01-02"

// ScheduledWorkout is a planned workout on a calendar day.
type ScheduledWorkout struct {
	ID        string
	Date      string
	WorkoutID string
	Completed bool
	CreatedAt time.Time
}

func ParseDate(raw string) (time.Time, error) {
	day, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperrors.ErrInvalidInput, raw)
	}
	return day, nil
}

// ShiftDate moves a YYYY-MM-DD date by days.
func ShiftDate(raw string, days int) (string, error) {
	day, err := ParseDate(raw)
	if err != nil {
		return "", err
	}
	return day.AddDate(0, 0, days).Format(DateLayout), nil
}
