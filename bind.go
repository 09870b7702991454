package reportbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/nikitaxru/reportbook/model"
)

// SheetBinding связывает лист шаблона с параметрами. Name задаёт имя листа
// результата, пустое оставляет имя листа шаблона.
type SheetBinding struct {
	Template string
	Name     string
	Params   *Params
}

// Bind заполняет все листы шаблона одной таблицей параметров.
func Bind(t *Template, p *Params) (*model.Workbook, error) {
	bs := make([]SheetBinding, 0, len(t.book.Sheets))
	for _, sh := range t.book.Sheets {
		bs = append(bs, SheetBinding{Template: sh.Name, Params: p})
	}
	return BindSheets(t, bs...)
}

// BindSheets собирает книгу из перечисленных листов шаблона. Лист шаблона
// можно использовать несколько раз с разными параметрами; неназванные листы
// в результат не попадают.
func BindSheets(t *Template, bindings ...SheetBinding) (*model.Workbook, error) {
	out := &model.Workbook{Styles: append([]model.Style(nil), t.book.Styles...)}
	for _, b := range bindings {
		src := t.book.Sheet(b.Template)
		if src == nil {
			return nil, fmt.Errorf("%w: лист %q отсутствует в шаблоне", model.ErrMalformedTemplate, b.Template)
		}
		var sh *model.Sheet
		if err := deepcopy.Copy(&sh, src); err != nil {
			return nil, fmt.Errorf("копирование листа %s: %w", src.Name, err)
		}
		if b.Name != "" {
			sh.Name = b.Name
		}
		if out.Sheet(sh.Name) != nil {
			return nil, fmt.Errorf("%w: повторное имя листа %q", model.ErrMalformedTemplate, sh.Name)
		}
		out.Sheets = append(out.Sheets, sh)
		bd := &binder{wb: out, sh: sh, params: b.Params}
		if err := bd.bindSingles(); err != nil {
			return nil, err
		}
		if err := bd.expandRows(); err != nil {
			return nil, err
		}
	}
	if err := model.CheckBound(out); err != nil {
		return nil, err
	}
	return out, nil
}

type binder struct {
	wb     *model.Workbook
	sh     *model.Sheet
	params *Params
}

func (b *binder) cellErr(row, col int, tag string, err error) error {
	return model.NewCellError(b.sh.Name, row, col, tag, err)
}

// bindSingles подставляет одиночные теги во всех ячейках листа.
func (b *binder) bindSingles() error {
	for ri, r := range b.sh.Rows {
		if r == nil {
			continue
		}
		for ci := range r.Cells {
			c := &r.Cells[ci]
			if c.Value.Kind != model.KindTag || isRowRepeat(c.Value) {
				continue
			}
			if err := b.bindSingle(ri, ci, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func isRowRepeat(v model.Value) bool {
	return len(v.Segments) == 1 && v.Segments[0].Tag != nil && v.Segments[0].Tag.Kind == model.TagRowRepeat
}

func (b *binder) bindSingle(row, col int, c *model.Cell) error {
	segs := c.Value.Segments
	if len(segs) == 1 && segs[0].Tag != nil {
		tag := segs[0].Tag
		sc, err := b.scalar(tag)
		if err != nil {
			return b.cellErr(row, col, tag.Raw, err)
		}
		v, style, err := b.convert(sc, c.Style)
		if err != nil {
			return b.cellErr(row, col, tag.Raw, err)
		}
		c.Value, c.Style = v, style
		return nil
	}
	// тег внутри текста даёт текст
	var sb strings.Builder
	for _, sg := range segs {
		if sg.Tag == nil {
			sb.WriteString(sg.Text)
			continue
		}
		sc, err := b.scalar(sg.Tag)
		if err != nil {
			return b.cellErr(row, col, sg.Tag.Raw, err)
		}
		sb.WriteString(sc.String())
	}
	c.Value = model.TextValue(sb.String())
	return nil
}

func (b *binder) scalar(tag *model.Tag) (Scalar, error) {
	p, err := b.params.Lookup(tag.Name)
	if err != nil {
		return Scalar{}, err
	}
	sc, ok := p.Scalar()
	if !ok {
		return Scalar{}, fmt.Errorf("%w: %s является последовательностью, а тег одиночный", model.ErrTypeMismatch, tag.Name)
	}
	return sc, nil
}

// convert приводит скаляр к виду, который объявляет числовой формат ячейки.
func (b *binder) convert(sc Scalar, style int) (model.Value, int, error) {
	st := b.wb.Style(style)
	switch model.ClassifyFormat(st.NumFmt) {
	case model.FormatText:
		return model.TextValue(sc.String()), style, nil
	case model.FormatNumber:
		switch sc.Kind() {
		case ScalarText:
			f, err := strconv.ParseFloat(strings.TrimSpace(sc.String()), 64)
			if err != nil {
				return model.Value{}, 0, fmt.Errorf("%w: %q в числовой ячейке", model.ErrTypeMismatch, sc.String())
			}
			return model.NumberValue(f), style, nil
		}
		return model.NumberValue(sc.Float()), style, nil
	case model.FormatDate:
		switch sc.Kind() {
		case ScalarText:
			t, err := time.Parse("2006-01-02", strings.TrimSpace(sc.String()))
			if err != nil {
				return model.Value{}, 0, fmt.Errorf("%w: %q в ячейке даты", model.ErrTypeMismatch, sc.String())
			}
			return model.DateValue(model.TimeToSerial(t)), style, nil
		}
		return model.DateValue(sc.Float()), style, nil
	}
	switch sc.Kind() {
	case ScalarInt, ScalarDecimal:
		return model.NumberValue(sc.Float()), style, nil
	case ScalarDate:
		st.NumFmt = model.DateFormat
		return model.DateValue(sc.Float()), b.wb.Intern(st), nil
	}
	return model.TextValue(sc.String()), style, nil
}

type repeatCell struct {
	col int
	tag *model.Tag
	seq []Scalar
}

// expandRows размножает строки с тегами повтора снизу вверх, чтобы индексы
// ещё не обработанных строк не сдвигались.
func (b *binder) expandRows() error {
	for ri := len(b.sh.Rows) - 1; ri >= 0; ri-- {
		r := b.sh.Rows[ri]
		if r == nil {
			continue
		}
		var group []repeatCell
		for ci, c := range r.Cells {
			if c.Value.Kind == model.KindTag && isRowRepeat(c.Value) {
				group = append(group, repeatCell{col: ci, tag: c.Value.Segments[0].Tag})
			}
		}
		if len(group) == 0 {
			continue
		}
		if err := b.expandRow(ri, group); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) expandRow(row int, group []repeatCell) error {
	n := -1
	for i := range group {
		g := &group[i]
		p, err := b.params.Lookup(g.tag.Name)
		if err != nil {
			return b.cellErr(row, g.col, g.tag.Raw, err)
		}
		if !p.Seq {
			return b.cellErr(row, g.col, g.tag.Raw, fmt.Errorf("%w: %s является скаляром, а тег повтора строк ждёт последовательность", model.ErrTypeMismatch, g.tag.Name))
		}
		for j := 1; j < len(p.Values); j++ {
			if p.Values[j].Kind() != p.Values[0].Kind() {
				return b.cellErr(row, g.col, g.tag.Raw, fmt.Errorf("%w: %s[%d] %s, ожидался %s", model.ErrTypeMismatch, g.tag.Name, j, p.Values[j].Kind(), p.Values[0].Kind()))
			}
		}
		g.seq = p.Values
		if n < 0 {
			n = len(g.seq)
		} else if len(g.seq) != n {
			return b.cellErr(row, g.col, g.tag.Raw, fmt.Errorf("%w: %s содержит %d, ожидалось %d", model.ErrRowGroupLengthMismatch, g.tag.Name, len(g.seq), n))
		}
	}

	count := n
	minRows := 0
	for _, g := range group {
		if g.tag.MaxRepeat > 0 && count > g.tag.MaxRepeat {
			count = g.tag.MaxRepeat
		}
		if g.tag.MinRepeat > minRows {
			minRows = g.tag.MinRepeat
		}
	}
	if count < minRows {
		count = minRows
	}

	switch {
	case count == 0:
		b.wb.RemoveRow(b.sh, row)
		return nil
	case count > 1:
		b.wb.DuplicateRow(b.sh, row, count-1)
	}

	for i := 0; i < count; i++ {
		r := b.sh.Row(row + i)
		for _, g := range group {
			c := &r.Cells[g.col]
			if i >= len(g.seq) || (g.tag.OmitDuplicate && i > 0 && g.seq[i].Equal(g.seq[i-1])) {
				c.Value = model.Value{}
				continue
			}
			v, style, err := b.convert(g.seq[i], c.Style)
			if err != nil {
				return b.cellErr(row+i, g.col, g.tag.Raw, err)
			}
			c.Value, c.Style = v, style
		}
	}
	return nil
}
