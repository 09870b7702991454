package reportbook

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/nikitaxru/reportbook/model"
)

// ScalarKind задаёт вид скалярного параметра.
type ScalarKind uint8

const (
	ScalarText ScalarKind = iota
	ScalarInt
	ScalarDecimal
	ScalarDate
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarText:
		return "text"
	case ScalarInt:
		return "integer"
	case ScalarDecimal:
		return "decimal"
	case ScalarDate:
		return "date"
	}
	return "scalar(" + strconv.Itoa(int(k)) + ")"
}

// Scalar хранит значение параметра: текст, целое, десятичное с масштабом или дата.
type Scalar struct {
	kind  ScalarKind
	text  string
	n     int64 // целое или немасштабированное десятичное
	scale int
	t     time.Time
}

// Text создаёт текстовый скаляр.
func Text(s string) Scalar { return Scalar{kind: ScalarText, text: s} }

// Int создаёт целый скаляр.
func Int(n int64) Scalar { return Scalar{kind: ScalarInt, n: n} }

// Decimal создаёт десятичное unscaled·10^-scale, например Decimal(1050, 2) = 10.50.
func Decimal(unscaled int64, scale int) Scalar {
	if scale < 0 {
		for ; scale < 0; scale++ {
			unscaled *= 10
		}
	}
	return Scalar{kind: ScalarDecimal, n: unscaled, scale: scale}
}

// Date создаёт дату (время суток сохраняется).
func Date(t time.Time) Scalar { return Scalar{kind: ScalarDate, t: t} }

// ParseDecimal разбирает десятичную запись без экспоненты: "-10000.50".
func ParseDecimal(s string) (Scalar, error) {
	s = strings.TrimSpace(s)
	intPart, frac, _ := strings.Cut(s, ".")
	digits := intPart + frac
	if digits == "" || digits == "-" || digits == "+" {
		return Scalar{}, fmt.Errorf("%w: %q не десятичное число", model.ErrTypeMismatch, s)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Scalar{}, fmt.Errorf("%w: %q: %v", model.ErrTypeMismatch, s, err)
	}
	return Decimal(n, len(frac)), nil
}

// ScalarOf приводит значение Go к скаляру.
func ScalarOf(v any) (Scalar, error) {
	switch x := v.(type) {
	case Scalar:
		return x, nil
	case string:
		return Text(x), nil
	case json.Number:
		return jsonNumberScalar(x)
	case time.Time:
		return Date(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Scalar{}, fmt.Errorf("%w: %d вне диапазона int64", model.ErrTypeMismatch, x)
		}
		return Int(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Scalar{}, fmt.Errorf("%w: %d вне диапазона int64", model.ErrTypeMismatch, x)
		}
		return Int(int64(x)), nil
	case float32:
		return floatScalar(float64(x))
	case float64:
		return floatScalar(x)
	}
	// именованные числа (time.Duration, перечисления) остаются числами,
	// даже если у них есть String()
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return Scalar{}, fmt.Errorf("%w: %d вне диапазона int64", model.ErrTypeMismatch, rv.Uint())
		}
		return Int(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return floatScalar(rv.Float())
	}
	if x, ok := v.(fmt.Stringer); ok {
		return Text(x.String()), nil
	}
	if rv.Kind() == reflect.String {
		return Text(rv.String()), nil
	}
	return Scalar{}, fmt.Errorf("%w: %T не скаляр", model.ErrTypeMismatch, v)
}

func floatScalar(f float64) (Scalar, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Scalar{}, fmt.Errorf("%w: %v", model.ErrTypeMismatch, f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int64(f)), nil
	}
	return ParseDecimal(strconv.FormatFloat(f, 'f', -1, 64))
}

func jsonNumberScalar(n json.Number) (Scalar, error) {
	s := n.String()
	if !strings.ContainsAny(s, "eE") {
		if !strings.Contains(s, ".") {
			if i, err := n.Int64(); err == nil {
				return Int(i), nil
			}
		}
		return ParseDecimal(s)
	}
	f, err := n.Float64()
	if err != nil {
		return Scalar{}, fmt.Errorf("%w: %v", model.ErrTypeMismatch, err)
	}
	return floatScalar(f)
}

// Kind возвращает вид скаляра.
func (s Scalar) Kind() ScalarKind { return s.kind }

// Float возвращает число, для даты серийное число Excel.
func (s Scalar) Float() float64 {
	switch s.kind {
	case ScalarInt:
		return float64(s.n)
	case ScalarDecimal:
		f, _ := strconv.ParseFloat(s.String(), 64)
		return f
	case ScalarDate:
		return model.TimeToSerial(s.t)
	}
	f, _ := strconv.ParseFloat(strings.TrimSpace(s.text), 64)
	return f
}

// Time возвращает значение даты.
func (s Scalar) Time() time.Time { return s.t }

// String пишет значение без учёта локали: целые без разделителей, десятичные с
// масштабом, даты как 2006-01-02 (и 15:04:05, если есть время суток).
func (s Scalar) String() string {
	switch s.kind {
	case ScalarText:
		return s.text
	case ScalarInt:
		return strconv.FormatInt(s.n, 10)
	case ScalarDecimal:
		return formatDecimal(s.n, s.scale)
	case ScalarDate:
		if s.t.Hour() == 0 && s.t.Minute() == 0 && s.t.Second() == 0 {
			return s.t.Format("2006-01-02")
		}
		return s.t.Format("2006-01-02 15:04:05")
	}
	return ""
}

// Equal сравнивает скаляры по виду и значению.
func (s Scalar) Equal(o Scalar) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case ScalarDate:
		return s.t.Equal(o.t)
	case ScalarDecimal:
		return s.String() == o.String()
	}
	return s.text == o.text && s.n == o.n
}

func formatDecimal(n int64, scale int) string {
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	digits := strconv.FormatUint(u, 10)
	if scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if neg {
		return "-" + digits
	}
	return digits
}
