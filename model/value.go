package model

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/currency"
)

// ValueType identifies the active variant of a Value.
type ValueType int

const (
	// ValueEmpty indicates a cell without a value.
	ValueEmpty ValueType = iota
	// ValueText indicates a string value.
	ValueText
	// ValueNumber indicates a floating point value.
	ValueNumber
	// ValueDateTime indicates a naive timestamp.
	ValueDateTime
	// ValueTimeDuration indicates a signed duration.
	ValueTimeDuration
	// ValueBoolean indicates a boolean value.
	ValueBoolean
	// ValueCurrency indicates an amount with a currency code.
	ValueCurrency
	// ValuePercentage indicates a percentage stored as a fraction.
	ValuePercentage
)

// String returns the string representation of the value type.
func (t ValueType) String() string {
	switch t {
	case ValueEmpty:
		return "empty"
	case ValueText:
		return "text"
	case ValueNumber:
		return "number"
	case ValueDateTime:
		return "datetime"
	case ValueTimeDuration:
		return "time-duration"
	case ValueBoolean:
		return "boolean"
	case ValueCurrency:
		return "currency"
	case ValuePercentage:
		return "percentage"
	default:
		return "unknown"
	}
}

// Value is the content of a spreadsheet cell. Exactly one variant is active,
// selected by Type. The zero value is the empty value.
type Value struct {
	typ  ValueType
	str  string // text or currency code
	num  float64
	ts   time.Time
	dur  time.Duration
	flag bool
}

// EmptyValue returns the empty value.
func EmptyValue() Value { return Value{} }

// TextValue returns a text value.
func TextValue(s string) Value { return Value{typ: ValueText, str: s} }

// NumberValue returns a number value.
func NumberValue(f float64) Value { return Value{typ: ValueNumber, num: f} }

// DateTimeValue returns a date-time value. The wall clock of t is kept and
// its location dropped, the format has no notion of time zones.
func DateTimeValue(t time.Time) Value {
	naive := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return Value{typ: ValueDateTime, ts: naive}
}

// DurationValue returns a time-duration value.
func DurationValue(d time.Duration) Value { return Value{typ: ValueTimeDuration, dur: d} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{typ: ValueBoolean, flag: b} }

// CurrencyValue returns a currency value with the given currency code.
func CurrencyValue(code string, f float64) Value {
	return Value{typ: ValueCurrency, str: code, num: f}
}

// PercentageValue returns a percentage value. 0.5 means 50%.
func PercentageValue(f float64) Value { return Value{typ: ValuePercentage, num: f} }

// Type returns the active variant.
func (v Value) Type() ValueType { return v.typ }

// IsEmpty reports whether v is the empty value.
func (v Value) IsEmpty() bool { return v.typ == ValueEmpty }

// Text returns the string of a text value.
func (v Value) Text() (string, bool) {
	if v.typ != ValueText {
		return "", false
	}
	return v.str, true
}

// TextOr returns the string of a text value or def for any other variant.
func (v Value) TextOr(def string) string {
	if s, ok := v.Text(); ok {
		return s
	}
	return def
}

// Number returns the float of a number value.
func (v Value) Number() (float64, bool) {
	if v.typ != ValueNumber {
		return 0, false
	}
	return v.num, true
}

// DateTime returns the timestamp of a date-time value.
func (v Value) DateTime() (time.Time, bool) {
	if v.typ != ValueDateTime {
		return time.Time{}, false
	}
	return v.ts, true
}

// Duration returns the duration of a time-duration value.
func (v Value) Duration() (time.Duration, bool) {
	if v.typ != ValueTimeDuration {
		return 0, false
	}
	return v.dur, true
}

// Bool returns the flag of a boolean value.
func (v Value) Bool() (bool, bool) {
	if v.typ != ValueBoolean {
		return false, false
	}
	return v.flag, true
}

// Currency returns the code and amount of a currency value.
func (v Value) Currency() (string, float64, bool) {
	if v.typ != ValueCurrency {
		return "", 0, false
	}
	return v.str, v.num, true
}

// Percentage returns the fraction of a percentage value.
func (v Value) Percentage() (float64, bool) {
	if v.typ != ValuePercentage {
		return 0, false
	}
	return v.num, true
}

// CurrencyUnit parses the code of a currency value as an ISO 4217 unit.
func (v Value) CurrencyUnit() (currency.Unit, error) {
	if v.typ != ValueCurrency {
		return currency.Unit{}, fmt.Errorf("value of type %s has no currency", v.typ)
	}
	u, err := currency.ParseISO(v.str)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency code %q: %w", v.str, err)
	}
	return u, nil
}

// Equal reports whether both values have the same variant and payload.
// NaN numbers compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case ValueEmpty:
		return true
	case ValueText:
		return v.str == o.str
	case ValueNumber, ValuePercentage:
		return floatEqual(v.num, o.num)
	case ValueCurrency:
		return v.str == o.str && floatEqual(v.num, o.num)
	case ValueDateTime:
		return v.ts.Equal(o.ts)
	case ValueTimeDuration:
		return v.dur == o.dur
	case ValueBoolean:
		return v.flag == o.flag
	}
	return false
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// String returns a display form of the value.
func (v Value) String() string {
	switch v.typ {
	case ValueText:
		return v.str
	case ValueNumber:
		return FormatFloat(v.num)
	case ValuePercentage:
		return FormatFloat(v.num*100) + "%"
	case ValueCurrency:
		return v.str + " " + FormatFloat(v.num)
	case ValueDateTime:
		if v.ts.Hour() == 0 && v.ts.Minute() == 0 && v.ts.Second() == 0 && v.ts.Nanosecond() == 0 {
			return v.ts.Format("2006-01-02")
		}
		return v.ts.Format("2006-01-02 15:04:05.999999999")
	case ValueTimeDuration:
		return v.dur.String()
	case ValueBoolean:
		if v.flag {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// FormatFloat renders f in plain decimal notation when that stays short and
// in exponent notation otherwise. The result parses back to f exactly.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e15) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
