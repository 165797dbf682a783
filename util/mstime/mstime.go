// Package mstime converts between time.Time and the millisecond unix
// timestamps stored in block sidebands and unchecked entries.
package mstime

import "time"

// UnixMilliToTime returns the local time corresponding to the given
// number of milliseconds since January 1, 1970 UTC.
func UnixMilliToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// TimeToUnixMilli returns t as the number of milliseconds elapsed
// since January 1, 1970 UTC.
func TimeToUnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// NowUnixMilli returns the current time as unix milliseconds.
func NowUnixMilli() int64 {
	return TimeToUnixMilli(time.Now())
}
