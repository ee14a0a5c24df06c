package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// Calendar form with an optional 12-hour marker, weekday tolerated
	// between the date and the time: 2024年9月18日 星期三 下午2:05:09
	cjkTimeRE = regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日.*?(上午|下午)?\s*(\d{1,2}):(\d{2}):(\d{2})`)

	// Numeric form: 2024-09-18 14:05:09, also with slashes or a T
	numericTimeRE = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})[ T](\d{1,2}):(\d{2}):(\d{2})`)
)

// parseEpoch converts a capture-time phrase to epoch seconds, or nil
// when no supported form matches. Exports record no zone, so the
// conversion assumes the local zone; captures exported in different
// zones can compare a few hours apart.
func parseEpoch(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if m := cjkTimeRE.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hh, _ := strconv.Atoi(m[5])
		mm, _ := strconv.Atoi(m[6])
		ss, _ := strconv.Atoi(m[7])

		// 12-hour fixups: 下午 shifts the afternoon, 上午 folds 12
		// back to midnight.
		switch m[4] {
		case "下午":
			if hh < 12 {
				hh += 12
			}
		case "上午":
			if hh == 12 {
				hh = 0
			}
		}

		epoch := time.Date(year, time.Month(month), day, hh, mm, ss, 0, time.Local).Unix()
		return &epoch
	}

	if m := numericTimeRE.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hh, _ := strconv.Atoi(m[4])
		mm, _ := strconv.Atoi(m[5])
		ss, _ := strconv.Atoi(m[6])

		epoch := time.Date(year, time.Month(month), day, hh, mm, ss, 0, time.Local).Unix()
		return &epoch
	}

	return nil
}
