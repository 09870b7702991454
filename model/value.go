package model

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Kind задаёт вид содержимого ячейки.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
	KindBool
	KindError
	KindFormula
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	case KindError:
		return "error"
	case KindFormula:
		return "formula"
	case KindTag:
		return "tag"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// TagKind перечисляет виды тегов.
type TagKind uint8

const (
	// TagSingle заменяется ровно одним значением.
	TagSingle TagKind = iota
	// TagRowRepeat размножает строку по элементам последовательности.
	TagRowRepeat
)

func (k TagKind) String() string {
	switch k {
	case TagSingle:
		return "single"
	case TagRowRepeat:
		return "row-repeat"
	}
	return "tagkind(" + strconv.Itoa(int(k)) + ")"
}

// Tag описывает плейсхолдер шаблона.
type Tag struct {
	Kind TagKind
	Name string
	// исходный текст тега, например $R[]{item}
	Raw string

	// параметры $R[...]
	OmitDuplicate bool
	MinRepeat     int
	MaxRepeat     int
}

// Segment хранит кусок текстовой ячейки шаблона: либо литерал, либо тег.
type Segment struct {
	Text string
	Tag  *Tag
}

// Value хранит значение ячейки. Даты хранятся серийным числом системы 1900 в Num.
// Формулы хранятся без ведущего "=".
type Value struct {
	Kind     Kind
	Str      string
	Num      float64
	Bool     bool
	Formula  string
	Segments []Segment
}

func TextValue(s string) Value { return Value{Kind: KindText, Str: s} }
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func DateValue(serial float64) Value { return Value{Kind: KindDate, Num: serial} }
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func ErrorValue(code string) Value { return Value{Kind: KindError, Str: code} }
func FormulaValue(f string) Value { return Value{Kind: KindFormula, Formula: f} }

// IsEmpty сообщает, что ячейка пустая.
func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// Equal сравнивает логическое содержимое.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindEmpty:
		return true
	case KindText, KindError:
		return v.Str == o.Str
	case KindNumber, KindDate:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	case KindFormula:
		return v.Formula == o.Formula
	case KindTag:
		if len(v.Segments) != len(o.Segments) {
			return false
		}
		for i := range v.Segments {
			a, b := v.Segments[i], o.Segments[i]
			if a.Text != b.Text || (a.Tag == nil) != (b.Tag == nil) {
				return false
			}
			if a.Tag != nil && *a.Tag != *b.Tag {
				return false
			}
		}
		return true
	}
	return false
}

// String возвращает текст без учёта стиля (для логов и тестов).
func (v Value) String() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindText, KindError:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindDate:
		return SerialToTime(v.Num).Format("2006-01-02")
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindFormula:
		return "=" + v.Formula
	case KindTag:
		var s string
		for _, sg := range v.Segments {
			if sg.Tag != nil {
				s += sg.Tag.Raw
			} else {
				s += sg.Text
			}
		}
		return s
	}
	return fmt.Sprintf("%v", v.Kind)
}

// CellName переводит 0-based координаты в A1.
func CellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row+1, col+1)
	}
	return name
}
