package utils

import "time"

// NowUnixMillis returns the current time in Unix milliseconds.
func NowUnixMillis() int64 {
	return time.Now().UnixMilli()
}
