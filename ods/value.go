package ods

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tsawler/odsheet/model"
)

// Date layouts of office:date-value. Parsing accepts an optional fraction
// after the seconds.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// rawValue holds the value related attributes and text of one cell.
type rawValue struct {
	valueType string
	hasType   bool

	value    string // date-value, time-value, value or boolean-value
	hasValue bool

	currency    string
	hasCurrency bool

	stringValue string
	hasString   bool

	content    string
	hasContent bool
}

// decodeValueType maps an office:value-type token.
func decodeValueType(token string) (model.ValueType, error) {
	switch token {
	case "string":
		return model.ValueText, nil
	case "float":
		return model.ValueNumber, nil
	case "percentage":
		return model.ValuePercentage, nil
	case "date":
		return model.ValueDateTime, nil
	case "time":
		return model.ValueTimeDuration, nil
	case "boolean":
		return model.ValueBoolean, nil
	case "currency":
		return model.ValueCurrency, nil
	}
	return model.ValueEmpty, &UnknownCellTypeError{Token: token}
}

// valueTypeToken is the inverse of decodeValueType.
func valueTypeToken(vt model.ValueType) string {
	switch vt {
	case model.ValueText:
		return "string"
	case model.ValueNumber:
		return "float"
	case model.ValuePercentage:
		return "percentage"
	case model.ValueDateTime:
		return "date"
	case model.ValueTimeDuration:
		return "time"
	case model.ValueBoolean:
		return "boolean"
	case model.ValueCurrency:
		return "currency"
	}
	return ""
}

// decodeValue turns the raw attributes of the cell at ref into a Value.
func decodeValue(raw rawValue, ref model.CellRef) (model.Value, error) {
	if !raw.hasType {
		return model.EmptyValue(), nil
	}
	vt, err := decodeValueType(raw.valueType)
	if err != nil {
		return model.Value{}, fmt.Errorf("cell %s: %w", ref.Simple(), err)
	}

	missing := func() error {
		return &MissingValueError{Cell: ref, Type: vt}
	}

	switch vt {
	case model.ValueText:
		if raw.hasString {
			return model.TextValue(raw.stringValue), nil
		}
		return model.TextValue(raw.content), nil

	case model.ValueNumber, model.ValuePercentage, model.ValueCurrency:
		if !raw.hasValue || (vt == model.ValueCurrency && !raw.hasCurrency) {
			return model.Value{}, missing()
		}
		f, err := strconv.ParseFloat(raw.value, 64)
		if err != nil {
			return model.Value{}, fmt.Errorf("cell %s: %w", ref.Simple(), err)
		}
		switch vt {
		case model.ValuePercentage:
			return model.PercentageValue(f), nil
		case model.ValueCurrency:
			return model.CurrencyValue(raw.currency, f), nil
		}
		return model.NumberValue(f), nil

	case model.ValueDateTime:
		if !raw.hasValue {
			return model.Value{}, missing()
		}
		t, err := parseDateTime(raw.value)
		if err != nil {
			return model.Value{}, fmt.Errorf("cell %s: %w", ref.Simple(), err)
		}
		return model.DateTimeValue(t), nil

	case model.ValueTimeDuration:
		if !raw.hasValue {
			return model.Value{}, missing()
		}
		d, err := parseDuration(raw.value)
		if err != nil {
			return model.Value{}, fmt.Errorf("cell %s: %w", ref.Simple(), err)
		}
		return model.DurationValue(d), nil

	case model.ValueBoolean:
		if !raw.hasValue {
			return model.Value{}, missing()
		}
		return model.BoolValue(raw.value == "true"), nil
	}

	return model.EmptyValue(), nil
}

// parseDateTime parses a calendar date (exactly 10 characters) at midnight
// or a full timestamp.
func parseDateTime(s string) (time.Time, error) {
	if len(s) == 10 {
		return time.Parse(dateLayout, s)
	}
	return time.Parse(dateTimeLayout, s)
}

// formatDateTime is the inverse of parseDateTime.
func formatDateTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout + ".999999999")
}

// parseDuration scans the duration profile [-]P[nD]T[nH][nM][n[.f]S] in a
// single pass. Digits accumulate until a unit letter assigns them; digits
// after '.' are the fraction of a second. Unknown characters are ignored.
func parseDuration(s string) (time.Duration, error) {
	const maxSeconds = math.MaxInt64 / int64(time.Second)

	var (
		neg                     bool
		inTime, inFrac          bool
		acc                     int64
		days, hours, mins, secs int64
		nanos                   int64
		nanoDigits              int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-' && i == 0:
			neg = true
		case c == 'P':
		case c == 'T':
			inTime = true
		case c >= '0' && c <= '9':
			if inFrac {
				if nanoDigits < 9 {
					nanos = nanos*10 + int64(c-'0')
					nanoDigits++
				}
				continue
			}
			if acc > (maxSeconds-int64(c-'0'))/10 {
				return 0, fmt.Errorf("%w: %q", ErrDurationRange, s)
			}
			acc = acc*10 + int64(c-'0')
		case c == 'D':
			days, acc = acc, 0
		case c == 'H':
			hours, acc = acc, 0
		case c == 'M':
			if !inTime {
				return 0, fmt.Errorf("%w: duration %q uses calendar months", ErrInvalidDocument, s)
			}
			mins, acc = acc, 0
		case c == '.':
			secs, acc = acc, 0
			inFrac = true
		case c == 'S':
			if !inFrac {
				secs, acc = acc, 0
			}
		}
	}

	for ; nanoDigits > 0 && nanoDigits < 9; nanoDigits++ {
		nanos *= 10
	}

	total := int64(0)
	for _, f := range []struct{ n, unit int64 }{
		{days, 86400}, {hours, 3600}, {mins, 60}, {secs, 1},
	} {
		if f.n > (maxSeconds-total)/f.unit {
			return 0, fmt.Errorf("%w: %q", ErrDurationRange, s)
		}
		total += f.n * f.unit
	}
	// The negative range reaches one nanosecond further than the positive.
	maxNanos := int64(math.MaxInt64 % int64(time.Second))
	if neg {
		maxNanos++
	}
	if total == maxSeconds && nanos > maxNanos {
		return 0, fmt.Errorf("%w: %q", ErrDurationRange, s)
	}

	if neg {
		return -time.Duration(total)*time.Second - time.Duration(nanos), nil
	}
	return time.Duration(total)*time.Second + time.Duration(nanos), nil
}

// formatDuration writes d in the PnDTnHnMn.nS profile without days.
func formatDuration(d time.Duration) string {
	sign := ""
	u := uint64(d)
	if d < 0 {
		sign = "-"
		u = uint64(-d)
	}
	ns := u % uint64(time.Second)
	s := u / uint64(time.Second)
	return fmt.Sprintf("%sPT%dH%dM%d.%09dS", sign, s/3600, s/60%60, s%60, ns)
}
