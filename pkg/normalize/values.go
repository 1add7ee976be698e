package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"
)

// DateLayouts are tried in order; the first successful parse wins.
// Single-digit days and months are accepted.
var DateLayouts = []string{
	"2006-1-2", // ISO
	"2/1/2006", // day-first slash
	"2-1-2006", // day-first dash
}

// Text renders a raw value as trimmed text. Nil becomes "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return Text(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02")
	case civil.Date:
		if !x.IsValid() {
			return ""
		}
		return x.String()
	case *civil.Date:
		if x == nil {
			return ""
		}
		return Text(*x)
	case interface{ String() string }:
		return strings.TrimSpace(x.String())
	}
	return ""
}

// Serial coerces a display-ordering hint to an integer. Anything
// non-numeric or absent yields 0, as does a float that is not finite or
// does not fit in an int.
func Serial(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case int32:
		return int(x)
	case float64:
		if math.IsNaN(x) || x >= math.MaxInt || x < math.MinInt {
			return 0
		}
		return int(math.Trunc(x))
	case float32:
		return Serial(float64(x))
	case json.Number:
		return Serial(x.String())
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Serial(f)
		}
	}
	return 0
}

// Date resolves a raw due date. Strings are parsed with DateLayouts;
// timestamps are taken as-is; numbers are spreadsheet date serials.
func Date(v any) (civil.Date, bool) {
	switch x := v.(type) {
	case nil:
		return civil.Date{}, false
	case civil.Date:
		return x, x.IsValid()
	case *civil.Date:
		if x == nil {
			return civil.Date{}, false
		}
		return *x, x.IsValid()
	case time.Time:
		if x.IsZero() {
			return civil.Date{}, false
		}
		return civil.DateOf(x), true
	case *time.Time:
		if x == nil {
			return civil.Date{}, false
		}
		return Date(*x)
	case float64:
		return serialDate(x)
	case int64:
		return serialDate(float64(x))
	case int:
		return serialDate(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return civil.Date{}, false
		}
		return serialDate(f)
	case string:
		return parseDate(x)
	}
	return civil.Date{}, false
}

func parseDate(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return civil.DateOf(t), true
		}
	}
	return civil.Date{}, false
}

func serialDate(f float64) (civil.Date, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return civil.Date{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return civil.Date{}, false
	}
	return civil.DateOf(t), true
}
