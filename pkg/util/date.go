package util

import (
	"strings"
	"time"
)

// FormatDateTpl formats a millisecond Unix timestamp using a template with
// YYYY/YY/MM/DD/hh/mm/ss placeholders. Returns "" when ts == 0.
//
//	FormatDateTpl(ts, "DD/MM/YYYY hh:mm") // "10/11/2023 00:00"
func FormatDateTpl(ts int64, tpl string) string {
	if ts == 0 {
		return ""
	}

	goTpl := tpl
	for k, v := range map[string]string{
		"YYYY": "2006",
		"YY":   "06",
		"MM":   "01",
		"DD":   "02",
		"hh":   "15",
		"mm":   "04",
		"ss":   "05",
	} {
		goTpl = strings.ReplaceAll(goTpl, k, v)
	}

	return time.UnixMilli(ts).Format(goTpl)
}
