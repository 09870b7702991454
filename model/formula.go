package model

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// Ref описывает одну сторону ссылки: колонка и/или строка (строка 0-based).
type Ref struct {
	ColAbs bool
	Col    int // 0-based, -1 если колонки нет (ссылка на строки 3:5)
	RowAbs bool
	Row    int // 0-based, -1 если строки нет (ссылка на колонки A:A)
}

// RefToken хранит разобранный операнд-диапазон формулы.
type RefToken struct {
	Prefix string // "Sheet1!" или "'My Sheet'!" вместе с восклицательным знаком
	Sheet  string // имя листа без кавычек
	First  Ref
	Last   Ref
	Area   bool
}

var rxRefPart = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})?(\$?)([0-9]{1,7})?$`)

func parseRefPart(s string) (Ref, bool) {
	m := rxRefPart.FindStringSubmatch(s)
	if m == nil || (m[2] == "" && m[4] == "") {
		return Ref{}, false
	}
	r := Ref{Col: -1, Row: -1}
	if m[2] != "" {
		n := 0
		for _, ch := range strings.ToUpper(m[2]) {
			n = n*26 + int(ch-'A'+1)
		}
		r.Col, r.ColAbs = n-1, m[1] == "$"
	} else if m[1] == "$" {
		// "$5" без колонки
		r.RowAbs = true
	}
	if m[4] != "" {
		n, err := strconv.Atoi(m[4])
		if err != nil || n < 1 {
			return Ref{}, false
		}
		r.Row = n - 1
		if m[2] != "" {
			r.RowAbs = m[3] == "$"
		}
	}
	return r, true
}

// ParseRef разбирает операнд вида A1, $B$2, A1:C5, A:A, 3:5, Sheet1!A1.
// Имена (TOTAL, TaxRate) не считаются ссылками.
func ParseRef(s string) (RefToken, bool) {
	var rt RefToken
	if i := strings.LastIndex(s, "!"); i >= 0 {
		rt.Prefix = s[:i+1]
		rt.Sheet = s[:i]
		if strings.HasPrefix(rt.Sheet, "'") && strings.HasSuffix(rt.Sheet, "'") && len(rt.Sheet) >= 2 {
			rt.Sheet = strings.ReplaceAll(rt.Sheet[1:len(rt.Sheet)-1], "''", "'")
		}
		s = s[i+1:]
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		r, ok := parseRefPart(parts[0])
		if !ok || r.Col < 0 || r.Row < 0 {
			return RefToken{}, false
		}
		rt.First, rt.Last = r, r
	case 2:
		a, ok1 := parseRefPart(parts[0])
		b, ok2 := parseRefPart(parts[1])
		if !ok1 || !ok2 || (a.Col < 0) != (b.Col < 0) || (a.Row < 0) != (b.Row < 0) {
			return RefToken{}, false
		}
		rt.First, rt.Last, rt.Area = a, b, true
	default:
		return RefToken{}, false
	}
	return rt, true
}

func (r Ref) String() string {
	var b strings.Builder
	if r.Col >= 0 {
		if r.ColAbs {
			b.WriteByte('$')
		}
		b.WriteString(ColumnName(r.Col))
	}
	if r.Row >= 0 {
		if r.RowAbs {
			b.WriteByte('$')
		}
		b.WriteString(strconv.Itoa(r.Row + 1))
	}
	return b.String()
}

func (rt RefToken) String() string {
	if !rt.Area {
		return rt.Prefix + rt.First.String()
	}
	return rt.Prefix + rt.First.String() + ":" + rt.Last.String()
}

// ColumnName переводит 0-based индекс колонки в буквы.
func ColumnName(col int) string {
	var buf [8]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// refersTo сообщает, указывает ли ссылка на лист target из формулы на листе host.
func (rt RefToken) refersTo(host, target string) bool {
	if rt.Prefix == "" {
		return host == target
	}
	return rt.Sheet == target
}

const refError = "#REF!"

// rewriteRefs проходит операнды-диапазоны формулы и подменяет их результатом fn.
// Если ничего не поменялось, возвращается исходная строка.
func rewriteRefs(formula string, fn func(RefToken) (string, bool)) string {
	if strings.ContainsAny(formula, "{}") {
		// массивные константы efp представляет функциями ARRAY/ARRAYROW
		return formula
	}
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	changed := false
	for i, t := range tokens {
		if t.TType != efp.TokenTypeOperand || t.TSubType != efp.TokenSubTypeRange {
			continue
		}
		rt, ok := ParseRef(t.TValue)
		if !ok {
			continue
		}
		if nv, ok := fn(rt); ok && nv != t.TValue {
			tokens[i].TValue = nv
			changed = true
		}
	}
	if !changed {
		return formula
	}
	return RenderTokens(tokens)
}

// RenderTokens собирает формулу обратно из токенов efp.
func RenderTokens(tokens []efp.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		switch {
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart:
			b.WriteString(t.TValue)
			b.WriteByte('(')
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop,
			t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStop:
			b.WriteByte(')')
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStart:
			b.WriteByte('(')
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeText:
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(t.TValue, `"`, `""`))
			b.WriteByte('"')
		case t.TType == efp.TokenTypeOperatorInfix && t.TSubType == efp.TokenSubTypeIntersection,
			t.TType == efp.TokenTypeWhitespace:
			b.WriteByte(' ')
		default:
			b.WriteString(t.TValue)
		}
	}
	return b.String()
}

// ShiftInsert сдвигает ссылки формулы (лежащей на листе host) на лист target
// после вставки n строк ниже строки at: строки > at уходят на n вниз,
// диапазон, заканчивающийся на at, расширяется.
func ShiftInsert(formula, host, target string, at, n int) string {
	return shiftInsert(formula, host, target, at, n, true)
}

// shiftInsert без widen не расширяет диапазоны, заканчивающиеся на at: так
// сдвигаются формулы самой размножаемой строки.
func shiftInsert(formula, host, target string, at, n int, widen bool) string {
	return rewriteRefs(formula, func(rt RefToken) (string, bool) {
		if !rt.refersTo(host, target) || rt.First.Row < 0 {
			return "", false
		}
		first, last := rt.First.Row, rt.Last.Row
		if first > last {
			first, last = last, first
		}
		switch {
		case first > at:
			first += n
			last += n
		case last > at:
			last += n
		case widen && rt.Area && last == at:
			last += n
		default:
			return "", false
		}
		rt.First.Row, rt.Last.Row = first, last
		return rt.String(), true
	})
}

// ShiftRemove сдвигает ссылки после удаления строки at. Одиночная ссылка на
// удалённую строку превращается в #REF!.
func ShiftRemove(formula, host, target string, at int) string {
	return rewriteRefs(formula, func(rt RefToken) (string, bool) {
		if !rt.refersTo(host, target) || rt.First.Row < 0 {
			return "", false
		}
		first, last := rt.First.Row, rt.Last.Row
		if first > last {
			first, last = last, first
		}
		switch {
		case first == at && last == at:
			return refError, true
		case first > at:
			first--
			last--
		case last >= at:
			last--
		default:
			return "", false
		}
		rt.First.Row, rt.Last.Row = first, last
		return rt.String(), true
	})
}

// OffsetFormula смещает относительные строки всех ссылок на delta,
// как при копировании ячейки на delta строк вниз.
func OffsetFormula(formula string, delta int) string {
	if delta == 0 {
		return formula
	}
	return rewriteRefs(formula, func(rt RefToken) (string, bool) {
		if rt.First.Row < 0 {
			return "", false
		}
		if !rt.First.RowAbs {
			rt.First.Row += delta
		}
		if !rt.Last.RowAbs {
			rt.Last.Row += delta
		}
		if rt.First.Row < 0 || rt.Last.Row < 0 {
			return refError, true
		}
		return rt.String(), true
	})
}
