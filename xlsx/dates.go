package xlsx

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Built-in number formats that render as dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true,
	20: true, 21: true, 22: true, 45: true, 46: true, 47: true,
}

// isDateFormat reports whether a number format displays dates or times.
// Custom format codes qualify when they use a date or time token outside
// quoted literals and bracketed sections.
func isDateFormat(id int, code string) bool {
	if builtinDateFormats[id] {
		return true
	}
	if code == "" {
		return false
	}

	// Only the first section (positive numbers) matters.
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == ';' && !inQuote && !inBracket:
			return false
		case c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		case strings.IndexByte("dmyhsDMYHS", c) >= 0:
			return true
		}
	}
	return false
}

var (
	epoch1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
)

// serialToDate converts a spreadsheet date serial to text. Whole days render
// as 2006-01-02, pure times as 15:04:05 and anything else as both.
func serialToDate(v string, date1904 bool) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}

	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}

	days := math.Floor(f)
	secs := math.Round((f - days) * 86400)
	if secs >= 86400 {
		days++
		secs = 0
	}
	t := epoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)

	switch {
	case secs == 0:
		return t.Format("2006-01-02"), true
	case days == 0 && !date1904:
		return t.Format("15:04:05"), true
	}
	return t.Format("2006-01-02 15:04:05"), true
}
