package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// DefaultWindow is the number of trailing entries averaged for the weekly score
const DefaultWindow = 7

// DayLayout is the calendar-day format used as the entry key
const DayLayout = "2006-01-02"

var (
	// ErrCorrupt is returned when the persisted journal cannot be decoded
	ErrCorrupt = errors.New("journal data is corrupt")
)

// Entry is one day's recorded wellbeing score
type Entry struct {
	Day   string `json:"dia"`
	Score int    `json:"valor"`
}

// Journal is the ordered, deduplicated collection of entries, ascending by day.
// Operations return new values and never modify their input.
type Journal []Entry

// Load decodes the persisted blob. A nil raw means nothing was stored yet.
func Load(raw *string) (Journal, error) {
	if raw == nil || *raw == "" {
		return Journal{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(*raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if entries == nil {
		return Journal{}, nil
	}

	return Journal(entries), nil
}

// Serialize encodes the journal in its persisted form
func Serialize(j Journal) (string, error) {
	if j == nil {
		j = Journal{}
	}
	data, err := json.Marshal([]Entry(j))
	if err != nil {
		return "", fmt.Errorf("failed to marshal journal: %w", err)
	}
	return string(data), nil
}

// Upsert replaces any entry for day with {day, score} and re-sorts by day
func Upsert(j Journal, day string, score int) Journal {
	next := make(Journal, 0, len(j)+1)
	for _, e := range j {
		if e.Day != day {
			next = append(next, e)
		}
	}
	next = append(next, Entry{Day: day, Score: score})

	sort.SliceStable(next, func(a, b int) bool {
		return next[a].Day < next[b].Day
	})

	return next
}

// Find returns the entry recorded for day, if any
func (j Journal) Find(day string) (Entry, bool) {
	for _, e := range j {
		if e.Day == day {
			return e, true
		}
	}
	return Entry{}, false
}

// Reversed returns a copy of the journal, newest entry first
func (j Journal) Reversed() []Entry {
	out := make([]Entry, len(j))
	for i, e := range j {
		out[len(j)-1-i] = e
	}
	return out
}

// Average formats the mean of the last window entries with one decimal,
// rounding half away from zero. An empty journal yields "0.0" rather than
// the bare "0" the mobile screen used to show, so every result has one
// fractional digit.
func Average(j Journal, window int) string {
	if window <= 0 {
		window = DefaultWindow
	}

	tail := j
	if len(tail) > window {
		tail = tail[len(tail)-window:]
	}
	if len(tail) == 0 {
		return "0.0"
	}

	sum := 0
	for _, e := range tail {
		sum += e.Score
	}

	return formatTenths(roundTenths(sum, len(tail)))
}

// roundTenths returns round(sum/n * 10) with ties away from zero, in integers
func roundTenths(sum, n int) int {
	num := sum * 20
	den := 2 * n
	if num < 0 {
		return -((-num + n) / den)
	}
	return (num + n) / den
}

func formatTenths(t int) string {
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	return sign + strconv.Itoa(t/10) + "." + strconv.Itoa(t%10)
}

// Clock supplies the current time for computing today's key
type Clock func() time.Time

// TodayKey formats the current calendar date in loc (process-local when nil)
func TodayKey(now Clock, loc *time.Location) string {
	if now == nil {
		now = time.Now
	}
	t := now()
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DayLayout)
}
