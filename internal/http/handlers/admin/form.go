package admin

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"novi.com/app/templates/shared"
)

// formTime is the value format of <input type="datetime-local">.
const formTime = "2006-01-02T15:04"

// formReader parses typed values out of a submitted form and collects
// per-field errors on the way.
type formReader struct {
	v    url.Values
	errs map[string]string
}

func newFormReader(v url.Values) *formReader {
	return &formReader{v: v, errs: map[string]string{}}
}

func (r *formReader) str(name string) string {
	return strings.TrimSpace(r.v.Get(name))
}

func (r *formReader) intVal(name string) int {
	s := r.str(name)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.errs[name] = "Enter a whole number."
	}
	return n
}

func (r *formReader) int64Val(name string) int64 {
	s := r.str(name)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		r.errs[name] = "Enter a whole number."
	}
	return n
}

func (r *formReader) decimalVal(name string) decimal.Decimal {
	s := r.str(name)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.errs[name] = "Enter a number."
	}
	return d
}

// nullDecimalVal leaves the value invalid when the input is empty, so the
// model can report the field as required.
func (r *formReader) nullDecimalVal(name string) decimal.NullDecimal {
	if r.str(name) == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(r.decimalVal(name))
}

func (r *formReader) timeVal(name string) time.Time {
	s := r.str(name)
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(formTime, s, time.UTC)
	if err != nil {
		r.errs[name] = "Enter a date and time."
	}
	return t
}

func (r *formReader) errors() map[string]string {
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs
}

func fmtInt64(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func fmtInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(formTime)
}

func fmtNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func fmtNullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return shared.FormatMoney("", d.Decimal)
}
