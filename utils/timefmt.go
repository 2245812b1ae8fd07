package utils

import "time"

// ISOLayout khớp với định dạng toISOString (UTC, mili giây) để so sánh chuỗi theo thứ tự thời gian.
const ISOLayout = "2006-01-02T15:04:05.000Z"

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func NowISO() string { return FormatISO(time.Now()) }
