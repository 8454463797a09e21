package domain

import "time"

// StorageDateLayout is the history timestamp format: microseconds, no zone.
const StorageDateLayout = "2006-01-02T15:04:05.000000"

// CLIDateLayout is the day format accepted on the command line (DD/MM/YYYY)
const CLIDateLayout = "02/01/2006"

// ParseStorageDate parses a history timestamp in local time
func ParseStorageDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(StorageDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, ErrDateParse(value, StorageDateLayout, err)
	}
	return t, nil
}

// FormatStorageDate renders a history timestamp for the database
func FormatStorageDate(t time.Time) string {
	return t.In(time.Local).Format(StorageDateLayout)
}

// ParseCLIDate parses a DD/MM/YYYY day at midnight local time
func ParseCLIDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(CLIDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, ErrDateParse(value, "DD/MM/YYYY", err)
	}
	return t, nil
}

// EndOfDay returns the last representable instant of t's day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FormatDay renders a timestamp as DD/MM/YYYY
func FormatDay(t time.Time) string {
	return t.Format(CLIDateLayout)
}
