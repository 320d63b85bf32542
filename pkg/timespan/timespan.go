package timespan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

const (
	tick = 100 * time.Nanosecond
	day  = 24 * time.Hour
)

var (
	// ErrInvalid is returned when a value cannot be parsed as a timespan.
	ErrInvalid = errors.New("invalid timespan")

	timespanLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Clock", Pattern: `(\d+\.)?\d+:\d+(:\d+(\.\d+)?)?`},
		{Name: "Number", Pattern: `\d+(\.\d+)?`},
		{Name: "Ident", Pattern: `[a-zA-Z]+`},
		{Name: "Punct", Pattern: `[()]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	timespanParser = participle.MustBuild[literal](
		participle.Lexer(timespanLexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Ident"),
	)

	units = map[string]time.Duration{
		"d":            day,
		"day":          day,
		"days":         day,
		"h":            time.Hour,
		"hr":           time.Hour,
		"hrs":          time.Hour,
		"hour":         time.Hour,
		"hours":        time.Hour,
		"m":            time.Minute,
		"min":          time.Minute,
		"minute":       time.Minute,
		"minutes":      time.Minute,
		"s":            time.Second,
		"sec":          time.Second,
		"second":       time.Second,
		"seconds":      time.Second,
		"ms":           time.Millisecond,
		"milli":        time.Millisecond,
		"millis":       time.Millisecond,
		"millisecond":  time.Millisecond,
		"milliseconds": time.Millisecond,
		"micro":        time.Microsecond,
		"micros":       time.Microsecond,
		"microsecond":  time.Microsecond,
		"microseconds": time.Microsecond,
		"tick":         tick,
		"ticks":        tick,
	}
)

// literal is the grammar for the timespan forms accepted by Kusto control
// commands and returned by policy introspection:
//
//	30d | 12h | 1.5h | 90 minutes | 1.02:03:04 | 00:30:00 | time(7d) | timespan(1h)
type literal struct {
	Call  *literal `parser:"  ('time' | 'timespan') '(' @@ ')'"`
	Clock *string  `parser:"| @Clock"`
	Value *string  `parser:"| @Number"`
	Unit  *string  `parser:"  @Ident?"`
}

func (l *literal) duration() (time.Duration, error) {
	switch {
	case l.Call != nil:
		return l.Call.duration()
	case l.Clock != nil:
		return parseClock(*l.Clock)
	case l.Value != nil:
		value, err := strconv.ParseFloat(*l.Value, 64)
		if err != nil {
			return 0, errors.Wrapf(ErrInvalid, "bad number %q", *l.Value)
		}

		// A bare number is a count of days.
		unit := day
		if l.Unit != nil {
			u, ok := units[strings.ToLower(*l.Unit)]
			if !ok {
				return 0, errors.Wrapf(ErrInvalid, "unknown unit %q", *l.Unit)
			}
			unit = u
		}

		return time.Duration(value * float64(unit)), nil
	}

	return 0, ErrInvalid
}

// parseClock parses the [d.]hh:mm[:ss[.fffffff]] form.
func parseClock(s string) (time.Duration, error) {
	var total time.Duration

	if dot := strings.Index(s, "."); dot >= 0 && dot < strings.Index(s, ":") {
		days, err := strconv.Atoi(s[:dot])
		if err != nil {
			return 0, errors.Wrapf(ErrInvalid, "bad day component in %q", s)
		}
		total += time.Duration(days) * day
		s = s[dot+1:]
	}

	parts := strings.Split(s, ":")
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(ErrInvalid, "bad hour component in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Wrapf(ErrInvalid, "bad minute component in %q", s)
	}
	total += time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute

	if len(parts) > 2 {
		seconds, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, errors.Wrapf(ErrInvalid, "bad second component in %q", s)
		}
		total += time.Duration(seconds * float64(time.Second))
	}

	return total, nil
}

// Parse converts a Kusto timespan literal into a time.Duration.
//
// Example:
//
//	d, err := timespan.Parse("1.00:00:00")
//	// d == 24 * time.Hour
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(ErrInvalid, "empty value")
	}

	lit, err := timespanParser.ParseString("", s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalid, "%q: %v", s, err)
	}

	return lit.duration()
}

// Format renders d using the largest unit that represents it exactly.
//
// Example:
//
//	timespan.Format(72 * time.Hour)   // "3d"
//	timespan.Format(90 * time.Minute) // "90m"
func Format(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d%day == 0:
		return fmt.Sprintf("%dd", d/day)
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	case d%time.Millisecond == 0:
		return fmt.Sprintf("%dms", d/time.Millisecond)
	default:
		return fmt.Sprintf("%dtick", d/tick)
	}
}

// Canonical returns the canonical form of a timespan literal. Values that do
// not parse are returned trimmed but otherwise untouched so they still show
// up in diffs.
func Canonical(s string) string {
	d, err := Parse(s)
	if err != nil {
		return strings.TrimSpace(s)
	}

	return Format(d)
}

// Equal reports whether a and b denote the same duration.
func Equal(a, b string) bool {
	return Canonical(a) == Canonical(b)
}
