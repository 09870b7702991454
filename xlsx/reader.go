// Package xlsx читает шаблоны OOXML через excelize и пишет книги модели
// в пакет OOXML.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nikitaxru/reportbook/model"
)

type reader struct {
	f        *excelize.File
	wb       *model.Workbook
	styles   map[int]int
	date1904 bool
}

// Read разбирает книгу xlsx в модель документа.
func Read(r io.Reader) (*model.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrMalformedTemplate, err)
	}
	defer f.Close()

	rd := &reader{f: f, wb: model.NewWorkbook(), styles: map[int]int{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		rd.date1904 = *props.Date1904
	}
	for _, name := range f.GetSheetList() {
		if err := rd.sheet(name); err != nil {
			return nil, fmt.Errorf("лист %s: %w", name, err)
		}
	}
	return rd.wb, nil
}

func (rd *reader) sheet(name string) error {
	f := rd.f
	sh := rd.wb.AddSheet(name)
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}
	nRows, nCols := len(rows), 0
	for _, r := range rows {
		nCols = max(nCols, len(r))
	}
	// стилизованные пустые ячейки GetRows не возвращает, поэтому берём размер листа
	if dim, err := f.GetSheetDimension(name); err == nil && dim != "" {
		last := dim
		if _, end, ok := strings.Cut(dim, ":"); ok {
			last = end
		}
		if c, r, err := excelize.CellNameToCoordinates(last); err == nil {
			nRows, nCols = max(nRows, r), max(nCols, c)
		}
	}

	for ri := 0; ri < nRows; ri++ {
		for ci := 0; ci < nCols; ci++ {
			raw := ""
			if ri < len(rows) && ci < len(rows[ri]) {
				raw = rows[ri][ci]
			}
			cell, err := rd.cell(name, ri, ci, raw)
			if err != nil {
				return err
			}
			if cell.Value.Kind != model.KindEmpty || cell.Style != 0 {
				sh.SetCell(ri, ci, cell)
			}
		}
	}

	baseRow, _ := f.GetRowHeight(name, excelize.TotalRows)
	for ri := 0; ri < nRows; ri++ {
		h, err := f.GetRowHeight(name, ri+1)
		if err != nil {
			return err
		}
		visible, _ := f.GetRowVisible(name, ri+1)
		if h != baseRow || !visible {
			r := sh.EnsureRow(ri)
			if h != baseRow {
				r.Height = h
			}
			r.Hidden = !visible
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(excelize.MaxColumns)
	baseWidth, _ := f.GetColWidth(name, lastCol)
	for ci := 0; ci < nCols; ci++ {
		col, _ := excelize.ColumnNumberToName(ci + 1)
		w, err := f.GetColWidth(name, col)
		if err != nil {
			return err
		}
		visible, _ := f.GetColVisible(name, col)
		if w == baseWidth && visible {
			continue
		}
		if n := len(sh.Cols); n > 0 && sh.Cols[n-1].Last == ci-1 && sh.Cols[n-1].Width == w && sh.Cols[n-1].Hidden == !visible {
			sh.Cols[n-1].Last = ci
			continue
		}
		sh.Cols = append(sh.Cols, model.Col{First: ci, Last: ci, Width: w, Hidden: !visible})
	}

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return err
	}
	for _, m := range merges {
		c1, r1, err1 := excelize.CellNameToCoordinates(m.GetStartAxis())
		c2, r2, err2 := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err1 != nil || err2 != nil {
			continue
		}
		sh.Merges = append(sh.Merges, model.Range{FirstRow: r1 - 1, LastRow: r2 - 1, FirstCol: c1 - 1, LastCol: c2 - 1})
	}
	return nil
}

func (rd *reader) cell(sheet string, ri, ci int, raw string) (model.Cell, error) {
	f := rd.f
	axis, err := excelize.CoordinatesToCellName(ci+1, ri+1)
	if err != nil {
		return model.Cell{}, err
	}
	sid, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return model.Cell{}, err
	}
	style, err := rd.style(sid)
	if err != nil {
		return model.Cell{}, err
	}
	c := model.Cell{Style: style}

	if formula, err := f.GetCellFormula(sheet, axis); err == nil && formula != "" {
		c.Value = model.FormulaValue(strings.TrimPrefix(formula, "="))
		return c, nil
	}
	if raw == "" {
		return c, nil
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return model.Cell{}, err
	}
	switch typ {
	case excelize.CellTypeBool:
		c.Value = model.BoolValue(raw == "1" || strings.EqualFold(raw, "TRUE"))
	case excelize.CellTypeError:
		c.Value = model.ErrorValue(raw)
	case excelize.CellTypeDate:
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04:05", raw)
		}
		if err != nil {
			c.Value = model.TextValue(raw)
		} else {
			c.Value = model.DateValue(model.TimeToSerial(t))
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.Value = model.TextValue(raw)
			break
		}
		if model.ClassifyFormat(rd.wb.Style(style).NumFmt) == model.FormatDate {
			if rd.date1904 {
				num = model.Serial1904To1900(num)
			}
			c.Value = model.DateValue(num)
		} else {
			c.Value = model.NumberValue(num)
		}
	default:
		c.Value = model.TextValue(raw)
	}
	return c, nil
}

// style переводит стиль excelize в стиль модели.
func (rd *reader) style(sid int) (int, error) {
	if idx, ok := rd.styles[sid]; ok {
		return idx, nil
	}
	xs, err := rd.f.GetStyle(sid)
	if err != nil {
		return 0, err
	}
	st := model.Style{Font: model.DefaultFont}
	if xs.CustomNumFmt != nil && *xs.CustomNumFmt != "" {
		st.NumFmt = *xs.CustomNumFmt
	} else {
		st.NumFmt = model.FormatCode(xs.NumFmt, nil)
	}
	if xs.Font != nil {
		if xs.Font.Family != "" {
			st.Font.Name = xs.Font.Family
		}
		if xs.Font.Size > 0 {
			st.Font.Size = xs.Font.Size
		}
		st.Font.Bold = xs.Font.Bold
		st.Font.Italic = xs.Font.Italic
		st.Font.Strike = xs.Font.Strike
		st.Font.Under = xs.Font.Underline != "" && xs.Font.Underline != "none"
		st.Font.Color = normalizeColor(xs.Font.Color)
	}
	if xs.Alignment != nil {
		st.Horizontal = xs.Alignment.Horizontal
		if st.Horizontal == "general" {
			st.Horizontal = ""
		}
		st.Vertical = xs.Alignment.Vertical
		if st.Vertical == "bottom" {
			st.Vertical = ""
		}
		st.Wrap = xs.Alignment.WrapText
	}
	for _, b := range xs.Border {
		line := model.Border(b.Style)
		switch b.Type {
		case "left":
			st.Left = line
		case "right":
			st.Right = line
		case "top":
			st.Top = line
		case "bottom":
			st.Bottom = line
		}
	}
	if xs.Fill.Type == "pattern" && xs.Fill.Pattern == 1 && len(xs.Fill.Color) > 0 {
		st.Fill = normalizeColor(xs.Fill.Color[0])
	}
	idx := rd.wb.Intern(st)
	rd.styles[sid] = idx
	return idx, nil
}

// normalizeColor приводит цвет к RRGGBB в верхнем регистре.
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	if len(c) != 6 {
		return ""
	}
	return c
}
