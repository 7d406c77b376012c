package schedule

import (
	"regexp"
	"strings"
	"time"

	"github.com/Freeeeeet/roombooking/internal/apperr"
)

const (
	// SlotDuration длительность одного бронируемого слота, системная константа
	SlotDuration = 30 * time.Minute

	// MinWindowDuration минимальная длительность окна доступности
	MinWindowDuration = 30 * time.Minute

	// MaxWindowDuration максимальная длительность окна доступности
	MaxWindowDuration = 8 * time.Hour

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Номер аудитории - ключ на физической табличке, поэтому формат жёсткий
var roomNoRe = regexp.MustCompile(`^[A-Za-z0-9 _-]{2,20}$`)

// Window нормализованное окно доступности, время наивное (без зоны)
type Window struct {
	RoomNo    string
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time
}

// Duration возвращает длину окна
func (w Window) Duration() time.Duration {
	return w.EndTime.Sub(w.StartTime)
}

// ParseWindow проверяет и нормализует окно доступности.
// Чистая функция: никаких побочных эффектов, now передаётся явно.
func ParseWindow(roomNo, date, timeFrom, timeTo string, now time.Time) (Window, error) {
	roomNo = strings.ToUpper(strings.TrimSpace(roomNo))
	if !roomNoRe.MatchString(roomNo) {
		return Window{}, apperr.Validation("room number must be 2-20 characters: letters, digits, spaces, hyphens or underscores")
	}

	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return Window{}, apperr.Validation("invalid date format, expected YYYY-MM-DD")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return Window{}, apperr.Validation("cannot create rooms for past dates")
	}

	startMin, err := parseTimeOfDay(timeFrom)
	if err != nil {
		return Window{}, apperr.Validation("time must be in HH:MM format (24-hour)")
	}
	endMin, err := parseTimeOfDay(timeTo)
	if err != nil {
		return Window{}, apperr.Validation("time must be in HH:MM format (24-hour)")
	}

	if startMin >= endMin {
		return Window{}, apperr.Validation("end time must be after start time")
	}

	dur := time.Duration(endMin-startMin) * time.Minute
	if dur < MinWindowDuration {
		return Window{}, apperr.Validation("room duration must be at least %d minutes", int(MinWindowDuration.Minutes()))
	}
	if dur > MaxWindowDuration {
		return Window{}, apperr.Validation("room duration cannot exceed %d hours", int(MaxWindowDuration.Hours()))
	}

	return Window{
		RoomNo:    roomNo,
		Date:      day,
		StartTime: day.Add(time.Duration(startMin) * time.Minute),
		EndTime:   day.Add(time.Duration(endMin) * time.Minute),
	}, nil
}

// parseTimeOfDay разбирает "HH:MM" в минуты от полуночи
func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
