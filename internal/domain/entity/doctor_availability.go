package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorAvailability is a weekly open window declared by a doctor.
// At most one row exists per (doctor, day).
type DoctorAvailability struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_doctor_availability_day" json:"doctor_id"`
	Day       string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_doctor_availability_day" json:"day"`
	StartTime string    `gorm:"type:time;not null" json:"start_time"`
	EndTime   string    `gorm:"type:time;not null" json:"end_time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availabilities"
}

// ParseClock parses a wall-clock time as stored or submitted ("15:04" or "15:04:05").
func ParseClock(s string) (time.Duration, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

// FormatClock renders a stored time column as HH:MM.
func FormatClock(s string) string {
	d, ok := ParseClock(s)
	if !ok {
		return s
	}
	return time.Time{}.Add(d).Format("15:04")
}

// ValidTimeRange reports whether both ends parse and start is strictly before end.
func ValidTimeRange(start, end string) bool {
	s, ok := ParseClock(start)
	if !ok {
		return false
	}
	e, ok := ParseClock(end)
	if !ok {
		return false
	}
	return s < e
}

// InZone converts t to the clinic's location. A nil location means UTC.
func InZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t.UTC()
	}
	return t.In(loc)
}

// Covers reports whether t, read on the clinic's wall clock, falls on this
// slot's weekday within [start, end). The offset t was written in is irrelevant.
func (a *DoctorAvailability) Covers(t time.Time, loc *time.Location) bool {
	t = InZone(t, loc)
	if t.Weekday().String() != a.Day {
		return false
	}
	start, ok := ParseClock(a.StartTime)
	if !ok {
		return false
	}
	end, ok := ParseClock(a.EndTime)
	if !ok {
		return false
	}
	clock := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
	return clock >= start && clock < end
}
