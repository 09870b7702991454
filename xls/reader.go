package xls

import (
	"fmt"

	"github.com/nikitaxru/reportbook/model"
)

type fontRec struct {
	font model.Font
	icv  int
}

type boundSheet struct {
	name string
	pos  int
}

type decoder struct {
	wb       *model.Workbook
	pal      *palette
	date1904 bool
	fonts    []fontRec
	custom   map[int]string
	xfs      [][]byte
	xfStyle  map[int]int
	sst      []string
}

var (
	horizontalNames = [...]string{"", "left", "center", "right", "fill", "justify", "centerContinuous", ""}
	verticalNames   = [...]string{"top", "center", "", "justify", "", "", "", ""}
)

// Read разбирает книгу BIFF8 в модель документа.
func Read(data []byte) (*model.Workbook, error) {
	stream, err := readWorkbookStream(data)
	if err != nil {
		return nil, err
	}
	globals, err := readRecords(stream, 0)
	if err != nil {
		return nil, err
	}
	if globals[0].id != recBOF {
		return nil, fmt.Errorf("%w: поток не начинается с BOF", model.ErrMalformedTemplate)
	}
	if v := u16(globals[0].data, 0); v != biff8Version {
		return nil, fmt.Errorf("%w: версия BIFF 0x%04X, читается только BIFF8", model.ErrUnsupported, v)
	}
	d := &decoder{
		wb:      model.NewWorkbook(),
		pal:     newPalette(),
		custom:  map[int]string{},
		xfStyle: map[int]int{},
	}
	var sheets []boundSheet
	for _, rec := range globals {
		switch rec.id {
		case recDateMode:
			d.date1904 = u16(rec.data, 0) == 1
		case recFont:
			f, err := parseFont(rec.data)
			if err != nil {
				return nil, err
			}
			d.fonts = append(d.fonts, f)
		case recFormat:
			code, _, err := readXLString(rec.data, 2, 2)
			if err != nil {
				return nil, err
			}
			d.custom[u16(rec.data, 0)] = code
		case recXF:
			d.xfs = append(d.xfs, rec.data)
		case recPalette:
			d.pal.load(rec.data)
		case recBoundSheet:
			if len(rec.data) < 8 || rec.data[5] != 0 {
				// диаграммы и макролисты пропускаем
				continue
			}
			name, _, err := readXLString(rec.data, 6, 1)
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, boundSheet{name: name, pos: int(u32(rec.data, 0))})
		case recSST:
			if d.sst, err = readSST(rec); err != nil {
				return nil, err
			}
		}
	}
	for _, bs := range sheets {
		if bs.pos >= len(stream) {
			return nil, fmt.Errorf("%w: лист %s за концом потока", model.ErrMalformedTemplate, bs.name)
		}
		recs, err := readRecords(stream, bs.pos)
		if err != nil {
			return nil, fmt.Errorf("лист %s: %w", bs.name, err)
		}
		if err := d.readSheet(bs.name, recs); err != nil {
			return nil, err
		}
	}
	return d.wb, nil
}

func parseFont(p []byte) (fontRec, error) {
	if len(p) < 15 {
		return fontRec{}, fmt.Errorf("%w: запись FONT обрезана", model.ErrMalformedTemplate)
	}
	name, _, err := readXLString(p, 14, 1)
	if err != nil {
		return fontRec{}, err
	}
	grbit := u16(p, 2)
	return fontRec{
		font: model.Font{
			Name:   name,
			Size:   float64(u16(p, 0)) / 20,
			Bold:   u16(p, 6) >= 700,
			Italic: grbit&0x0002 != 0,
			Strike: grbit&0x0008 != 0,
			Under:  p[10] != 0,
		},
		icv: u16(p, 4),
	}, nil
}

// style переводит индекс XF в индекс стиля модели.
func (d *decoder) style(ixfe int) int {
	if idx, ok := d.xfStyle[ixfe]; ok {
		return idx
	}
	idx := 0
	if ixfe >= 0 && ixfe < len(d.xfs) {
		idx = d.wb.Intern(d.xfToStyle(d.xfs[ixfe]))
	}
	d.xfStyle[ixfe] = idx
	return idx
}

func (d *decoder) xfToStyle(x []byte) model.Style {
	st := model.Style{Font: model.DefaultFont}
	if len(x) < 20 {
		return st
	}
	ifnt := u16(x, 0)
	if ifnt >= 4 {
		ifnt--
	}
	if ifnt < len(d.fonts) {
		fr := d.fonts[ifnt]
		st.Font = fr.font
		if fr.icv != icvFontAuto && fr.icv != paletteFirst {
			st.Font.Color = d.pal.color(fr.icv)
		}
	}
	st.NumFmt = model.FormatCode(u16(x, 2), d.custom)
	align := x[6]
	st.Horizontal = horizontalNames[align&0x07]
	st.Wrap = align&0x08 != 0
	st.Vertical = verticalNames[align>>4&0x07]
	b1, b2 := u32(x, 10), u32(x, 14)
	st.Left = model.Border(b1 & 0x0F)
	st.Right = model.Border(b1 >> 4 & 0x0F)
	st.Top = model.Border(b1 >> 8 & 0x0F)
	st.Bottom = model.Border(b1 >> 12 & 0x0F)
	if b2>>26&0x3F == 1 {
		st.Fill = d.pal.color(u16(x, 18) & 0x7F)
	}
	return st
}

func (d *decoder) readSheet(name string, recs []record) error {
	sh := d.wb.AddSheet(name)
	set := func(row, col, ixfe int, v model.Value) {
		sh.SetCell(row, col, model.Cell{Value: v, Style: d.style(ixfe)})
	}
	number := func(row, col, ixfe int, f float64) {
		style := d.style(ixfe)
		v := model.NumberValue(f)
		if model.ClassifyFormat(d.wb.Style(style).NumFmt) == model.FormatDate {
			if d.date1904 {
				f = model.Serial1904To1900(f)
			}
			v = model.DateValue(f)
		}
		sh.SetCell(row, col, model.Cell{Value: v, Style: style})
	}
	// ячейка формулы со строковым результатом ждёт следующую запись STRING
	pendingRow, pendingCol, pendingXF := -1, -1, 0

	for _, rec := range recs {
		p := rec.data
		switch rec.id {
		case recRow:
			r := sh.EnsureRow(u16(p, 0))
			flags := u16(p, 12)
			if flags&0x0040 != 0 {
				r.Height = float64(u16(p, 6)&0x7FFF) / 20
			}
			r.Hidden = flags&0x0020 != 0
			if flags&0x0080 != 0 {
				r.Style = d.style(u16(p, 14) & 0x0FFF)
			}
		case recColInfo:
			c := model.Col{
				First:  u16(p, 0),
				Last:   u16(p, 2),
				Width:  float64(u16(p, 4)) / 256,
				Hidden: u16(p, 8)&0x0001 != 0,
			}
			if ixfe := u16(p, 6); ixfe != firstCellXF-1 {
				c.Style = d.style(ixfe)
			}
			sh.Cols = append(sh.Cols, c)
		case recDefColWidth:
			sh.DefaultColWidth = float64(u16(p, 0))
		case recLabelSST:
			isst := int(u32(p, 6))
			if isst >= len(d.sst) {
				return fmt.Errorf("%w: лист %s: индекс SST %d вне таблицы", model.ErrMalformedTemplate, name, isst)
			}
			set(u16(p, 0), u16(p, 2), u16(p, 4), model.TextValue(d.sst[isst]))
		case recLabel:
			s, _, err := readXLString(p, 6, 2)
			if err != nil {
				return err
			}
			set(u16(p, 0), u16(p, 2), u16(p, 4), model.TextValue(s))
		case recNumber:
			number(u16(p, 0), u16(p, 2), u16(p, 4), f64(p, 6))
		case recRK:
			number(u16(p, 0), u16(p, 2), u16(p, 4), decodeRK(u32(p, 6)))
		case recMulRK:
			row, col := u16(p, 0), u16(p, 2)
			for i := 0; 4+6*i+6 <= len(p)-2; i++ {
				number(row, col+i, u16(p, 4+6*i), decodeRK(u32(p, 6+6*i)))
			}
		case recBlank:
			set(u16(p, 0), u16(p, 2), u16(p, 4), model.Value{})
		case recMulBlank:
			row, col := u16(p, 0), u16(p, 2)
			for i := 0; 4+2*i+2 <= len(p)-2; i++ {
				set(row, col+i, u16(p, 4+2*i), model.Value{})
			}
		case recBoolErr:
			if len(p) < 8 {
				continue
			}
			if p[7] != 0 {
				set(u16(p, 0), u16(p, 2), u16(p, 4), model.ErrorValue(errorText(p[6])))
			} else {
				set(u16(p, 0), u16(p, 2), u16(p, 4), model.BoolValue(p[6] != 0))
			}
		case recFormula:
			if len(p) < 22 {
				continue
			}
			row, col, ixfe := u16(p, 0), u16(p, 2), u16(p, 4)
			rgce := p[22:min(22+u16(p, 20), len(p))]
			if text, err := decompileFormula(rgce); err == nil {
				set(row, col, ixfe, model.FormulaValue(text))
				continue
			}
			// формула вне поддерживаемого подмножества: берём закэшированный результат
			if p[12] != 0xFF || p[13] != 0xFF {
				number(row, col, ixfe, f64(p, 6))
				continue
			}
			switch p[6] {
			case 0:
				pendingRow, pendingCol, pendingXF = row, col, ixfe
			case 1:
				set(row, col, ixfe, model.BoolValue(p[8] != 0))
			case 2:
				set(row, col, ixfe, model.ErrorValue(errorText(p[8])))
			default:
				set(row, col, ixfe, model.Value{})
			}
		case recString:
			if pendingRow < 0 {
				continue
			}
			s, _, err := readXLString(p, 0, 2)
			if err != nil {
				return err
			}
			set(pendingRow, pendingCol, pendingXF, model.TextValue(s))
			pendingRow = -1
		case recMergeCells:
			n := u16(p, 0)
			for i := 0; i < n && 2+8*i+8 <= len(p); i++ {
				o := 2 + 8*i
				sh.Merges = append(sh.Merges, model.Range{
					FirstRow: u16(p, o),
					LastRow:  u16(p, o+2),
					FirstCol: u16(p, o+4),
					LastCol:  u16(p, o+6),
				})
			}
		}
	}
	return nil
}
