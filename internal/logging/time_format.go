package logging

import "time"

// logTimestampLayout keeps millisecond precision: ffmpeg progress ticks and
// calibration iterations can log several times per second, and a
// whole-second timestamp collapses them into indistinguishable lines.
const logTimestampLayout = "2006-01-02 15:04:05.000"

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(logTimestampLayout)
}
