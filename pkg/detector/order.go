package detector

import (
	"regexp"
	"strconv"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

var dateFields = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-]\d{2,4}$`)

// InferDateOrder decides the date order from captured header dates.
// A first component above 12 means day-first and a second component above
// 12 means month-first. When neither is seen, or both are (a mixed
// sample), the result is DateOrderAuto.
func InferDateOrder(dates []string) parser.DateOrder {
	dayFirst, monthFirst := false, false

	for _, date := range dates {
		m := dateFields.FindStringSubmatch(date)
		if m == nil {
			continue
		}
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		if first > 12 {
			dayFirst = true
		}
		if second > 12 {
			monthFirst = true
		}
	}

	switch {
	case dayFirst && !monthFirst:
		return parser.DateOrderDMY
	case monthFirst && !dayFirst:
		return parser.DateOrderMDY
	default:
		return parser.DateOrderAuto
	}
}
