package xls

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/efp"

	"github.com/nikitaxru/reportbook/model"
)

// Токены разобранных формул BIFF8 (ptg).
const (
	ptgExp     = 0x01
	ptgAdd     = 0x03
	ptgSub     = 0x04
	ptgMul     = 0x05
	ptgDiv     = 0x06
	ptgPower   = 0x07
	ptgConcat  = 0x08
	ptgLT      = 0x09
	ptgLE      = 0x0A
	ptgEQ      = 0x0B
	ptgGE      = 0x0C
	ptgGT      = 0x0D
	ptgNE      = 0x0E
	ptgUplus   = 0x12
	ptgUminus  = 0x13
	ptgPercent = 0x14
	ptgParen   = 0x15
	ptgMissArg = 0x16
	ptgStr     = 0x17
	ptgAttr    = 0x19
	ptgErr     = 0x1C
	ptgBool    = 0x1D
	ptgInt     = 0x1E
	ptgNum     = 0x1F

	// базовые коды классифицированных токенов, класс в битах 5-6
	ptgFunc    = 0x21
	ptgFuncVar = 0x22
	ptgRef     = 0x24
	ptgArea    = 0x25

	classRef   = 0x20
	classValue = 0x40
)

type xlFunc struct {
	id   uint16
	argc int // -1: переменное число аргументов
}

// Подмножество функций листа, которое умеет writer.
var xlFuncs = map[string]xlFunc{
	"COUNT":       {0, -1},
	"IF":          {1, -1},
	"SUM":         {4, -1},
	"AVERAGE":     {5, -1},
	"MIN":         {6, -1},
	"MAX":         {7, -1},
	"ABS":         {24, 1},
	"INT":         {25, 1},
	"ROUND":       {27, 2},
	"NOW":         {74, 0},
	"ROUNDUP":     {212, 2},
	"ROUNDDOWN":   {213, 2},
	"TODAY":       {221, 0},
	"SUMPRODUCT":  {228, -1},
	"CONCATENATE": {336, -1},
}

var funcNames = func() map[uint16]string {
	m := make(map[uint16]string, len(xlFuncs))
	for name, f := range xlFuncs {
		m[f.id] = name
	}
	return m
}()

var binaryOps = map[string]struct {
	ptg  byte
	prec int
}{
	"^":  {ptgPower, 5},
	"*":  {ptgMul, 4},
	"/":  {ptgDiv, 4},
	"+":  {ptgAdd, 3},
	"-":  {ptgSub, 3},
	"&":  {ptgConcat, 2},
	"=":  {ptgEQ, 1},
	"<":  {ptgLT, 1},
	"<=": {ptgLE, 1},
	">":  {ptgGT, 1},
	">=": {ptgGE, 1},
	"<>": {ptgNE, 1},
}

var opText = map[byte]string{
	ptgAdd: "+", ptgSub: "-", ptgMul: "*", ptgDiv: "/", ptgPower: "^", ptgConcat: "&",
	ptgLT: "<", ptgLE: "<=", ptgEQ: "=", ptgGE: ">=", ptgGT: ">", ptgNE: "<>",
}

const precUnary = 6

// opEntry лежит в стеке операторов сортировочной станции. Непустой fn
// означает открывающую скобку функции, paren скобку подвыражения.
type opEntry struct {
	ptg   byte
	prec  int
	fn    *fnFrame
	paren bool
}

type fnFrame struct {
	name string
	args int
}

func unsupported(formula, format string, args ...any) error {
	return fmt.Errorf("%w: формула %q: %s", model.ErrUnsupported, formula, fmt.Sprintf(format, args...))
}

// compileFormula переводит формулу A1 в RPN-токены BIFF8.
func compileFormula(formula string) ([]byte, error) {
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	var (
		out   fields
		ops   []opEntry
		depth int
	)
	popOp := func() {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		out = out.u8(op.ptg)
	}
	// popUntilMarker выталкивает операторы до ближайшей скобки
	popUntilMarker := func() {
		for len(ops) > 0 && ops[len(ops)-1].fn == nil && !ops[len(ops)-1].paren {
			popOp()
		}
	}
	operandClass := func() byte {
		if depth > 0 {
			return classRef
		}
		return classValue
	}

	for i, t := range tokens {
		switch t.TType {
		case efp.TokenTypeOperand:
			switch t.TSubType {
			case efp.TokenSubTypeNumber:
				f, err := strconv.ParseFloat(t.TValue, 64)
				if err != nil {
					return nil, unsupported(formula, "число %q", t.TValue)
				}
				if f == math.Trunc(f) && f >= 0 && f <= 0xFFFF {
					out = out.u8(ptgInt).u16(uint16(f))
				} else {
					out = out.u8(ptgNum).f64(f)
				}
			case efp.TokenSubTypeText:
				if charCount(t.TValue) > 255 {
					return nil, unsupported(formula, "строка длиннее 255 символов")
				}
				out = out.u8(ptgStr).raw(xlString(t.TValue, 1))
			case efp.TokenSubTypeLogical:
				v := uint8(0)
				if strings.EqualFold(t.TValue, "TRUE") {
					v = 1
				}
				out = out.u8(ptgBool).u8(v)
			case efp.TokenSubTypeError:
				code, ok := errorCodes[strings.ToUpper(t.TValue)]
				if !ok {
					return nil, unsupported(formula, "ошибка %q", t.TValue)
				}
				out = out.u8(ptgErr).u8(code)
			case efp.TokenSubTypeRange:
				ref, err := encodeRef(formula, t.TValue, operandClass())
				if err != nil {
					return nil, err
				}
				out = out.raw(ref)
			default:
				return nil, unsupported(formula, "операнд %q", t.TValue)
			}

		case efp.TokenTypeFunction:
			if t.TSubType == efp.TokenSubTypeStart {
				name := strings.ToUpper(t.TValue)
				if _, ok := xlFuncs[name]; !ok {
					return nil, unsupported(formula, "функция %s", t.TValue)
				}
				fr := &fnFrame{name: name}
				if i+1 < len(tokens) && !(tokens[i+1].TType == efp.TokenTypeFunction && tokens[i+1].TSubType == efp.TokenSubTypeStop) {
					fr.args = 1
				}
				ops = append(ops, opEntry{fn: fr})
				depth++
				continue
			}
			popUntilMarker()
			if len(ops) == 0 || ops[len(ops)-1].fn == nil {
				return nil, unsupported(formula, "непарная скобка")
			}
			fr := ops[len(ops)-1].fn
			ops = ops[:len(ops)-1]
			depth--
			f := xlFuncs[fr.name]
			switch {
			case f.argc < 0:
				out = out.u8(ptgFuncVar&^classRef | classValue).u8(uint8(fr.args)).u16(f.id)
			case f.argc == fr.args:
				out = out.u8(ptgFunc&^classRef | classValue).u16(f.id)
			default:
				return nil, unsupported(formula, "%s ожидает %d аргументов", fr.name, f.argc)
			}

		case efp.TokenTypeArgument:
			popUntilMarker()
			if len(ops) == 0 || ops[len(ops)-1].fn == nil {
				return nil, unsupported(formula, "разделитель вне функции")
			}
			ops[len(ops)-1].fn.args++

		case efp.TokenTypeSubexpression:
			if t.TSubType == efp.TokenSubTypeStart {
				ops = append(ops, opEntry{paren: true})
				continue
			}
			popUntilMarker()
			if len(ops) == 0 || !ops[len(ops)-1].paren {
				return nil, unsupported(formula, "непарная скобка")
			}
			ops = ops[:len(ops)-1]
			out = out.u8(ptgParen)

		case efp.TokenTypeOperatorPrefix:
			ptg := byte(ptgUminus)
			if t.TValue == "+" {
				ptg = ptgUplus
			}
			ops = append(ops, opEntry{ptg: ptg, prec: precUnary})

		case efp.TokenTypeOperatorPostfix:
			if t.TValue != "%" {
				return nil, unsupported(formula, "оператор %q", t.TValue)
			}
			out = out.u8(ptgPercent)

		case efp.TokenTypeOperatorInfix:
			op, ok := binaryOps[t.TValue]
			if !ok {
				return nil, unsupported(formula, "оператор %q", t.TValue)
			}
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.fn != nil || top.paren || top.prec < op.prec {
					break
				}
				popOp()
			}
			ops = append(ops, opEntry{ptg: op.ptg, prec: op.prec})

		case efp.TokenTypeWhitespace:
			continue

		default:
			return nil, unsupported(formula, "токен %q", t.TValue)
		}
	}
	for len(ops) > 0 {
		if ops[len(ops)-1].fn != nil || ops[len(ops)-1].paren {
			return nil, unsupported(formula, "непарная скобка")
		}
		popOp()
	}
	if len(out) == 0 {
		return nil, unsupported(formula, "пустая формула")
	}
	return out, nil
}

func encodeRef(formula, text string, class byte) ([]byte, error) {
	rt, ok := model.ParseRef(text)
	if !ok {
		return nil, unsupported(formula, "имя %q", text)
	}
	if rt.Prefix != "" {
		return nil, unsupported(formula, "ссылка на другой лист %q", text)
	}
	if rt.First.Row < 0 || rt.First.Col < 0 {
		return nil, unsupported(formula, "ссылка на целые строки или колонки %q", text)
	}
	if rt.First.Row >= MaxRows || rt.Last.Row >= MaxRows || rt.First.Col >= MaxCols || rt.Last.Col >= MaxCols {
		return nil, fmt.Errorf("%w: ссылка %q вне листа xls", model.ErrCapacityExceeded, text)
	}
	col := func(r model.Ref) uint16 {
		v := uint16(r.Col)
		if !r.RowAbs {
			v |= 0x8000
		}
		if !r.ColAbs {
			v |= 0x4000
		}
		return v
	}
	if !rt.Area {
		return fields{}.u8(ptgRef&^classRef | class).u16(uint16(rt.First.Row)).u16(col(rt.First)), nil
	}
	return fields{}.u8(ptgArea&^classRef|class).
		u16(uint16(rt.First.Row)).u16(uint16(rt.Last.Row)).
		u16(col(rt.First)).u16(col(rt.Last)), nil
}

func decodeRefPart(row, col uint16) model.Ref {
	return model.Ref{
		Row:    int(row),
		RowAbs: col&0x8000 == 0,
		Col:    int(col & 0x00FF),
		ColAbs: col&0x4000 == 0,
	}
}

// decompileFormula восстанавливает текст формулы из RPN-токенов того же подмножества.
func decompileFormula(rgce []byte) (string, error) {
	var st []string
	pop := func() (string, bool) {
		if len(st) == 0 {
			return "", false
		}
		s := st[len(st)-1]
		st = st[:len(st)-1]
		return s, true
	}
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: токен формулы: %s", model.ErrUnsupported, fmt.Sprintf(format, args...))
	}
	le := binary.LittleEndian
	for p := 0; p < len(rgce); {
		b := rgce[p]
		base := b
		if b >= 0x20 {
			base = b&0x1F | classRef
		}
		p++
		need := func(n int) error {
			if p+n > len(rgce) {
				return bad("обрезан")
			}
			return nil
		}
		switch {
		case base >= ptgAdd && base <= ptgNE:
			r, ok1 := pop()
			l, ok2 := pop()
			if !ok1 || !ok2 {
				return "", bad("нет операндов")
			}
			st = append(st, l+opText[base]+r)
		case base == ptgUplus || base == ptgUminus:
			x, ok := pop()
			if !ok {
				return "", bad("нет операнда")
			}
			sign := "-"
			if base == ptgUplus {
				sign = "+"
			}
			st = append(st, sign+x)
		case base == ptgPercent:
			x, ok := pop()
			if !ok {
				return "", bad("нет операнда")
			}
			st = append(st, x+"%")
		case base == ptgParen:
			x, ok := pop()
			if !ok {
				return "", bad("нет операнда")
			}
			st = append(st, "("+x+")")
		case base == ptgMissArg:
			st = append(st, "")
		case base == ptgStr:
			s, np, err := readXLString(rgce, p, 1)
			if err != nil {
				return "", err
			}
			p = np
			st = append(st, `"`+strings.ReplaceAll(s, `"`, `""`)+`"`)
		case base == ptgAttr:
			if err := need(3); err != nil {
				return "", err
			}
			grbit, w := rgce[p], int(le.Uint16(rgce[p+1:]))
			p += 3
			switch {
			case grbit&0x04 != 0: // tAttrChoose
				p += 2 * (w + 1)
			case grbit&0x10 != 0: // tAttrSum
				x, ok := pop()
				if !ok {
					return "", bad("нет операнда")
				}
				st = append(st, "SUM("+x+")")
			}
		case base == ptgErr:
			if err := need(1); err != nil {
				return "", err
			}
			st = append(st, errorText(rgce[p]))
			p++
		case base == ptgBool:
			if err := need(1); err != nil {
				return "", err
			}
			if rgce[p] != 0 {
				st = append(st, "TRUE")
			} else {
				st = append(st, "FALSE")
			}
			p++
		case base == ptgInt:
			if err := need(2); err != nil {
				return "", err
			}
			st = append(st, strconv.Itoa(int(le.Uint16(rgce[p:]))))
			p += 2
		case base == ptgNum:
			if err := need(8); err != nil {
				return "", err
			}
			st = append(st, strconv.FormatFloat(f64(rgce, p), 'g', -1, 64))
			p += 8
		case base == ptgRef:
			if err := need(4); err != nil {
				return "", err
			}
			st = append(st, decodeRefPart(le.Uint16(rgce[p:]), le.Uint16(rgce[p+2:])).String())
			p += 4
		case base == ptgArea:
			if err := need(8); err != nil {
				return "", err
			}
			first := decodeRefPart(le.Uint16(rgce[p:]), le.Uint16(rgce[p+4:]))
			last := decodeRefPart(le.Uint16(rgce[p+2:]), le.Uint16(rgce[p+6:]))
			st = append(st, first.String()+":"+last.String())
			p += 8
		case base == ptgFunc, base == ptgFuncVar:
			argc := -1
			if base == ptgFuncVar {
				if err := need(1); err != nil {
					return "", err
				}
				argc = int(rgce[p] & 0x7F)
				p++
			}
			if err := need(2); err != nil {
				return "", err
			}
			id := le.Uint16(rgce[p:]) & 0x7FFF
			p += 2
			name, ok := funcNames[id]
			if !ok {
				return "", bad("функция %d", id)
			}
			if argc < 0 {
				argc = xlFuncs[name].argc
			}
			if argc > len(st) {
				return "", bad("нет аргументов %s", name)
			}
			args := append([]string(nil), st[len(st)-argc:]...)
			st = st[:len(st)-argc]
			st = append(st, name+"("+strings.Join(args, ",")+")")
		default:
			return "", bad("0x%02X", b)
		}
	}
	if len(st) != 1 {
		return "", bad("несбалансированный стек")
	}
	return st[0], nil
}
