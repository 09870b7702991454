package reportbook

import (
	"fmt"
	"regexp"
	"strings"

	expro "github.com/expr-lang/expr"

	"github.com/nikitaxru/reportbook/model"
)

// Синтаксис тегов: $KIND[params]{name}. Пустой KIND означает одиночный тег, R повтор строк.
var rxTag = regexp.MustCompile(`\$([A-Za-z]*)(?:\[([^\]]*)\])?\{([^{}]*)\}`)

// TagRef описывает вхождение тега в шаблон.
type TagRef struct {
	Tag   model.Tag
	Sheet string
	Row   int // 0-based
	Col   int // 0-based
}

// Cell возвращает адрес в виде Sheet!A1.
func (r TagRef) Cell() string {
	return r.Sheet + "!" + model.CellName(r.Col, r.Row)
}

// TagTable хранит теги шаблона в порядке документа (лист, строка, колонка).
type TagTable []TagRef

// Names возвращает уникальные имена параметров в порядке первого появления.
func (tt TagTable) Names() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range tt {
		if _, ok := seen[r.Tag.Name]; ok {
			continue
		}
		seen[r.Tag.Name] = struct{}{}
		out = append(out, r.Tag.Name)
	}
	return out
}

// ParseTags находит все теги книги. Книга не изменяется.
func ParseTags(wb *model.Workbook) (TagTable, error) {
	var tt TagTable
	err := eachTagCell(wb, func(sh *model.Sheet, row, col int, segs []model.Segment) {
		for _, sg := range segs {
			if sg.Tag != nil {
				tt = append(tt, TagRef{Tag: *sg.Tag, Sheet: sh.Name, Row: row, Col: col})
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return tt, nil
}

// annotateTags заменяет текст ячеек с тегами значениями вида KindTag.
func annotateTags(wb *model.Workbook) error {
	return eachTagCell(wb, func(sh *model.Sheet, row, col int, segs []model.Segment) {
		sh.Cell(row, col).Value = model.Value{Kind: model.KindTag, Segments: segs}
	})
}

func eachTagCell(wb *model.Workbook, fn func(sh *model.Sheet, row, col int, segs []model.Segment)) error {
	for _, sh := range wb.Sheets {
		for ri, r := range sh.Rows {
			if r == nil {
				continue
			}
			for ci, c := range r.Cells {
				var text string
				switch c.Value.Kind {
				case model.KindText:
					text = c.Value.Str
				case model.KindTag:
					fn(sh, ri, ci, c.Value.Segments)
					continue
				default:
					continue
				}
				segs, err := parseCellText(text)
				if err != nil {
					var tag string
					if te, ok := err.(*tagError); ok {
						tag, err = te.raw, te.err
					}
					return model.NewCellError(sh.Name, ri, ci, tag, err)
				}
				if segs != nil {
					fn(sh, ri, ci, segs)
				}
			}
		}
	}
	return nil
}

type tagError struct {
	raw string
	err error
}

func (e *tagError) Error() string { return e.raw + ": " + e.err.Error() }
func (e *tagError) Unwrap() error { return e.err }

// parseCellText режет текст ячейки на литералы и теги. nil, если тегов нет.
func parseCellText(s string) ([]model.Segment, error) {
	ms := rxTag.FindAllStringSubmatchIndex(s, -1)
	if len(ms) == 0 {
		return nil, nil
	}
	var segs []model.Segment
	last := 0
	for _, m := range ms {
		start, end := m[0], m[1]
		if start > last {
			segs = append(segs, model.Segment{Text: s[last:start]})
		}
		raw := s[start:end]
		var params string
		if m[4] >= 0 {
			params = s[m[4]:m[5]]
		}
		tag, err := parseTag(raw, s[m[2]:m[3]], params, strings.TrimSpace(s[m[6]:m[7]]))
		if err != nil {
			return nil, &tagError{raw: raw, err: err}
		}
		segs = append(segs, model.Segment{Tag: tag})
		last = end
	}
	if last < len(s) {
		segs = append(segs, model.Segment{Text: s[last:]})
	}
	for _, sg := range segs {
		if sg.Tag != nil && sg.Tag.Kind == model.TagRowRepeat && len(segs) > 1 {
			return nil, &tagError{raw: sg.Tag.Raw, err: fmt.Errorf("%w: тег повтора строк должен занимать всю ячейку", model.ErrMalformedTemplate)}
		}
	}
	return segs, nil
}

func parseTag(raw, kind, params, name string) (*model.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: пустое имя параметра", model.ErrMalformedTemplate)
	}
	t := &model.Tag{Name: name, Raw: raw}
	switch kind {
	case "":
		t.Kind = model.TagSingle
		if strings.TrimSpace(params) != "" {
			return nil, fmt.Errorf("%w: у одиночного тега нет параметров", model.ErrMalformedTemplate)
		}
		return t, nil
	case "R":
		t.Kind = model.TagRowRepeat
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownTagKind, kind)
	}
	for _, arg := range splitArgs(params) {
		if arg == "" {
			continue
		}
		key, val, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: параметр %q без значения", model.ErrMalformedTemplate, arg)
		}
		v, err := expro.Eval(strings.TrimSpace(val), nil)
		if err != nil {
			return nil, fmt.Errorf("%w: параметр %s: %v", model.ErrMalformedTemplate, key, err)
		}
		switch key {
		case "omitDuplicate":
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: omitDuplicate ожидает true/false, получено %v", model.ErrMalformedTemplate, v)
			}
			t.OmitDuplicate = b
		case "minRepeatNum", "repeatNum":
			n, ok := v.(int)
			if !ok || n < 0 {
				return nil, fmt.Errorf("%w: %s ожидает неотрицательное целое, получено %v", model.ErrMalformedTemplate, key, v)
			}
			if key == "minRepeatNum" {
				t.MinRepeat = n
			} else {
				t.MaxRepeat = n
			}
		default:
			return nil, fmt.Errorf("%w: неизвестный параметр %s", model.ErrMalformedTemplate, key)
		}
	}
	return t, nil
}

// splitArgs делит строку по запятым верхнего уровня, не заходя в кавычки и скобки.
func splitArgs(s string) []string {
	var args []string
	var b strings.Builder
	quote := byte(0)
	depth := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			b.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch {
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')' && depth > 0:
			depth--
		case ch == ',' && depth == 0:
			args = append(args, strings.TrimSpace(b.String()))
			b.Reset()
			continue
		}
		b.WriteByte(ch)
	}
	if b.Len() > 0 {
		args = append(args, strings.TrimSpace(b.String()))
	}
	return args
}
