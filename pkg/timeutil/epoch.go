// Package timeutil formats the epoch timestamps and scan windows reported
// by the log service.
package timeutil

import (
	"fmt"
	"time"
)

// Epoch values above this are taken to be milliseconds rather than seconds.
const millisThreshold = 1_000_000_000_000

// Layout is used for every timestamp shown to users.
const Layout = "2006-01-02 15:04:05 MST"

// FromEpoch converts an epoch value in seconds or milliseconds to UTC.
func FromEpoch(v int64) time.Time {
	if v > millisThreshold || v < -millisThreshold {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}

// FormatEpoch renders an epoch value with Layout.
func FormatEpoch(v int64) string {
	return FromEpoch(v).Format(Layout)
}

// FormatRange renders a scanned interval. Missing bounds are shown as "?".
// When both bounds are known the span length is appended.
//
// Examples:
//   - (1717200000, 1717200600) -> "2024-06-01 00:00:00 UTC - 2024-06-01 00:10:00 UTC (10m)"
//   - (nil, 1717200600)        -> "? - 2024-06-01 00:10:00 UTC"
func FormatRange(start, end *int64) string {
	from, to := "?", "?"
	if start != nil {
		from = FormatEpoch(*start)
	}
	if end != nil {
		to = FormatEpoch(*end)
	}
	s := from + " - " + to
	if start != nil && end != nil {
		if d := FromEpoch(*end).Sub(FromEpoch(*start)); d >= 0 {
			s += " (" + FormatDuration(d) + ")"
		}
	}
	return s
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.1fd", d.Hours()/24)
}
