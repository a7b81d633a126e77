// Package streak implements the habit streak rules and the 7-day momentum
// calculation. All date arithmetic happens in one configured civil calendar.
package streak

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/standup/internal/constants"
	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/utils"
)

// SameDayPolicy decides what a second completion on the same calendar day
// does to the streak.
type SameDayPolicy string

const (
	// SameDayKeep leaves the streak where it is (at least 1)
	SameDayKeep SameDayPolicy = "keep"
	// SameDayReset sets the streak back to 1
	SameDayReset SameDayPolicy = "reset"
	// SameDayIncrement treats the repeat like a consecutive day
	SameDayIncrement SameDayPolicy = "increment"
)

// ParsePolicy parses a same-day policy name. An empty string means keep.
func ParsePolicy(s string) (SameDayPolicy, error) {
	switch p := SameDayPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case SameDayKeep, SameDayReset, SameDayIncrement:
		return p, nil
	case "":
		return SameDayKeep, nil
	}
	return "", fmt.Errorf("invalid same-day policy %q (want keep, reset or increment)", s)
}

// NextStreak returns the streak after a completion at now, given the instant
// of the previous completion (nil if there is none) and the stored streak.
func NextStreak(last *time.Time, now time.Time, current int, loc *time.Location, policy SameDayPolicy) int {
	if last == nil {
		return 1
	}

	switch utils.DaysBetween(*last, now, loc) {
	case 1:
		return current + 1
	case 0:
		switch policy {
		case SameDayReset:
			return 1
		case SameDayIncrement:
			return current + 1
		default:
			return max(current, 1)
		}
	default:
		// gap of two or more days, or a last entry in the future after a clock change
		return 1
	}
}

// Replay computes the streak a habit should hold after the given completions,
// applying NextStreak in chronological order.
func Replay(dates []time.Time, loc *time.Location, policy SameDayPolicy) int {
	if len(dates) == 0 {
		return 0
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var last *time.Time
	current := 0
	for i := range sorted {
		current = NextStreak(last, sorted[i], current, loc, policy)
		last = &sorted[i]
	}
	return current
}

// MomentumPercent converts distinct completion days in the window into a
// rounded percentage in [0, 100].
func MomentumPercent(distinctDays int) int {
	pct := int(math.Round(float64(distinctDays) * 100 / constants.MomentumWindowDays))
	return min(max(pct, 0), 100)
}

// Window returns the first and last calendar day (YYYY-MM-DD) of the momentum
// window ending on asOf.
func Window(asOf time.Time, loc *time.Location) (string, string) {
	end := utils.Day(asOf, loc)
	start := utils.AddDays(end, -(constants.MomentumWindowDays - 1), loc)
	return start.Format(constants.DateFormat), end.Format(constants.DateFormat)
}

// ParseQuantity parses a user supplied quantity. An empty string means the
// default quantity and yields nil.
func ParseQuantity(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperrors.InvalidArgument("parse quantity", "quantity %q is not an integer", s)
	}
	if n <= 0 {
		return nil, apperrors.InvalidArgument("parse quantity", "quantity must be positive, got %d", n)
	}
	return &n, nil
}
