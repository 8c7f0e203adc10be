package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// lapClockPattern matches "[HH:]MM:SS[.fraction]".
var lapClockPattern = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{1,2}(?:\.\d+)?)$`)

// pandasTimedeltaPattern matches the string form of a pandas Timedelta,
// e.g. "0 days 00:01:23.456000", which is how FastF1 exports lap times.
var pandasTimedeltaPattern = regexp.MustCompile(`^(\d+) days? (.+)$`)

// ParseLapTime parses a lap or elapsed time. Accepted forms:
//
//	"1:23.456", "01:23.456000", "00:01:23.456"   clock notation
//	"0 days 00:01:23.456000"                      pandas timedelta
//	"1m23.456s"                                   Go duration
//	"83.456"                                      plain seconds
func ParseLapTime(s string) (time.Duration, error) {
	input := strings.TrimSpace(s)
	if input == "" {
		return 0, fmt.Errorf("lap time is empty")
	}

	if m := pandasTimedeltaPattern.FindStringSubmatch(input); m != nil {
		days, _ := strconv.Atoi(m[1])
		rest, err := ParseLapTime(m[2])
		if err != nil {
			return 0, err
		}
		return time.Duration(days)*24*time.Hour + rest, nil
	}

	if m := lapClockPattern.FindStringSubmatch(input); m != nil {
		var hours, minutes int
		if m[1] != "" {
			hours, _ = strconv.Atoi(m[1])
		}
		minutes, _ = strconv.Atoi(m[2])
		seconds, err := strconv.ParseFloat(m[3], 64)
		if err != nil || seconds >= 60 || (minutes >= 60 && m[1] != "") {
			return 0, fmt.Errorf("invalid lap time: %s", input)
		}
		return time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(math.Round(seconds*float64(time.Second))), nil
	}

	if v, err := strconv.ParseFloat(input, 64); err == nil {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid lap time: %s", input)
		}
		return time.Duration(math.Round(v * float64(time.Second))), nil
	}

	if d, err := time.ParseDuration(input); err == nil {
		return d, nil
	}

	return 0, fmt.Errorf("invalid lap time: %s", input)
}

// FormatLapTime renders d as "MM:SS.mmm".
func FormatLapTime(d time.Duration) string {
	if d < 0 {
		return "-" + FormatLapTime(-d)
	}
	d = d.Truncate(time.Millisecond)
	minutes := int(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int(d / time.Second)
	d -= time.Duration(seconds) * time.Second
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, int(d/time.Millisecond))
}

// ParseDuration accepts anything time.ParseDuration does plus a leading
// day count, so keep-alive values such as "1d" or "2d12h" work.
func ParseDuration(s string) (time.Duration, error) {
	input := strings.TrimSpace(s)
	if d, err := time.ParseDuration(input); err == nil {
		return d, nil
	}

	days, rest, ok := strings.Cut(input, "d")
	if !ok || days == "" {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	n, err := strconv.ParseUint(days, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	total := time.Duration(n) * 24 * time.Hour
	if rest == "" {
		return total, nil
	}

	extra, err := time.ParseDuration(rest)
	if err != nil || extra < 0 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	return total + extra, nil
}
