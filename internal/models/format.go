package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var mmddPattern = regexp.MustCompile(`^\d{2}-\d{2}$`)

// IsMMDD reports whether value has the MM-DD date shape used by attendance rows.
func IsMMDD(value string) bool {
	return mmddPattern.MatchString(value)
}

// FormatMMDD formats t as MM-DD.
func FormatMMDD(t time.Time) string {
	return t.Format("01-02")
}

// AttendanceRate formats present/total as a percentage with two decimals, "0.00%" when total is zero.
func AttendanceRate(present, total int) string {
	if total <= 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(present)/float64(total)*100)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
