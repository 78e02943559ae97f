package report

import "fmt"

// iecUnits matches bytes(n)'s IEC-unit ladder.
var iecUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// Bytes renders n using IEC units with one decimal place, e.g. "1.5 MiB".
// Values under 1 KiB are rendered as a whole byte count with no decimal.
func Bytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(iecUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, iecUnits[unit])
}

// Uptime renders a duration in seconds as "Nd Nh Nm", eliding zero
// segments: uptime(0) == "0m", uptime(86400+3600+60) ==
// "1d 1h 1m".
func Uptime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%dd ", days)
	}
	if hours > 0 {
		out += fmt.Sprintf("%dh ", hours)
	}
	if minutes > 0 || out == "" {
		out += fmt.Sprintf("%dm ", minutes)
	}
	return trimTrailingSpace(out)
}

// Percent renders x (already in percentage units, e.g. 42.5 for 42.5%)
// with one decimal place and a trailing "%".
func Percent(x float64) string {
	return fmt.Sprintf("%.1f%%", x)
}

func trimTrailingSpace(s string) string {
	if len(s) > 0 && s[len(s)-1] == ' ' {
		return s[:len(s)-1]
	}
	return s
}
