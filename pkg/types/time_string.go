package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesInDay = 24 * 60
	timeLayout   = "15:04"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда результат выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток в формате "HH:MM".
// Допускается "24:00" как конец суток (для окон работы до полуночи).
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" (или "HH:MM:SS" из БД)
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(normalize(s))
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от начала суток
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesInDay {
		return "", ErrTimeOverflow
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidTimeString
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidTimeString
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidTimeString
	}

	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 {
		return 0, ErrInvalidTimeString
	}
	if hours == 24 && minutes != 0 {
		return 0, ErrInvalidTimeString
	}

	return hours*60 + minutes, nil
}

// AddMinutes прибавляет минуты; результат должен остаться в пределах суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(current + minutes)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a > b
}

// On возвращает момент, когда на часах в loc показывает t в дату date.
// "24:00" означает 00:00 следующего дня.
func (t TimeString) On(date time.Time, loc *time.Location) (time.Time, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	if minutes == 24*60 {
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc), nil
	}
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc), nil
}

// Scan реализует sql.Scanner (колонки TIME приходят как "HH:MM:SS")
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// normalize обрезает секунды у значений вида "HH:MM:SS"
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") && strings.Count(s, ":") == 2 {
		return s[:5]
	}
	return s
}
