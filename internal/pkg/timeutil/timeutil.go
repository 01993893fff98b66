package timeutil

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// DefaultStandardDayHours is the working day length used for overtime.
const DefaultStandardDayHours = 8.0

const DateLayout = "2006-01-02"

// Clock abstracts the current time so services can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a settable clock used by tests.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// RoundHours rounds h to 2 decimal places, half away from zero.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// HoursBetween returns end-start in hours rounded to 2 dp. A negative span yields 0.
func HoursBetween(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	return RoundHours(end.Sub(start).Hours())
}

// ExtraHours returns the hours worked beyond standardDay, never negative.
func ExtraHours(worked, standardDay float64) float64 {
	return RoundHours(math.Max(0, worked-standardDay))
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// InclusiveDays counts calendar days from start to end, both included.
// Returns 0 when end is before start.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// FormatHours renders fractional hours as "7h 30m".
func FormatHours(h float64) string {
	if h < 0 {
		h = 0
	}
	totalMinutes := int(math.Round(h * 60))
	return fmt.Sprintf("%dh %02dm", totalMinutes/60, totalMinutes%60)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
