package web

import (
	"strconv"
	"time"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func utoa(value uint64) string {
	return strconv.FormatUint(value, 10)
}

func formatTime(value time.Time) string {
	if value.IsZero() || value.Unix() == 0 {
		return "-"
	}
	return value.Format("2006-01-02 15:04:05")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
