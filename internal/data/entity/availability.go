package entity

import (
	"time"

	"github.com/google/uuid"
)

// Availability is a weekly window or, when SpecialDate is set, an override
// for that single date. Weekday follows the ISO convention 0=Monday.
type Availability struct {
	BaseNoDelete
	LawyerID       uuid.UUID  `db:"lawyer_id"`
	Weekday        int        `db:"weekday"`
	StartTime      Clock      `db:"start_time"`
	EndTime        Clock      `db:"end_time"`
	IsAvailable    bool       `db:"is_available"`
	BreakStartTime *Clock     `db:"break_start_time"`
	BreakEndTime   *Clock     `db:"break_end_time"`
	SpecialDate    *time.Time `db:"special_date"`
	IsHoliday      bool       `db:"is_holiday"`
}

func MondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return weekdayNames[weekday]
}

// HasBreak reports whether both ends of the break window are set
func (a *Availability) HasBreak() bool {
	return a.BreakStartTime != nil && a.BreakEndTime != nil
}

// Valid checks the window ordering and that any break lies inside it
func (a *Availability) Valid() bool {
	if a.Weekday < 0 || a.Weekday > 6 {
		return false
	}
	if a.StartTime >= a.EndTime {
		return false
	}
	if (a.BreakStartTime == nil) != (a.BreakEndTime == nil) {
		return false
	}
	if a.HasBreak() {
		bs, be := *a.BreakStartTime, *a.BreakEndTime
		if bs >= be || bs < a.StartTime || be > a.EndTime {
			return false
		}
	}
	return true
}
