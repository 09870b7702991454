package xls

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/nikitaxru/reportbook/model"
)

const (
	recDefColWidth = 0x0055
	rowBlock       = 32
	defaultRowTwip = 300
)

// Write кодирует книгу в xls. Ёмкость проверяется до записи первого байта.
func Write(w io.Writer, wb *model.Workbook) error {
	if err := model.CheckBound(wb); err != nil {
		return err
	}
	if err := CheckCapacity(wb); err != nil {
		return err
	}
	stream, err := encodeWorkbook(wb)
	if err != nil {
		return err
	}
	return writeCompoundFile(w, stream)
}

// CheckCapacity проверяет пределы формата: строки, колонки, длину строк,
// число XF и имена листов.
func CheckCapacity(wb *model.Workbook) error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("%w: книга без листов", model.ErrUnsupported)
	}
	if n := firstCellXF + len(wb.Styles); n > MaxXF {
		return fmt.Errorf("%w: %d форматов ячеек, предел xls %d", model.ErrCapacityExceeded, n, MaxXF)
	}
	for _, sh := range wb.Sheets {
		if n := charCount(sh.Name); n == 0 || n > maxSheetName {
			return fmt.Errorf("%w: имя листа %q длиной %d, предел xls %d", model.ErrCapacityExceeded, sh.Name, n, maxSheetName)
		}
		if n := sh.NumRows(); n > MaxRows {
			return fmt.Errorf("%w: лист %s: %d строк, предел xls %d", model.ErrCapacityExceeded, sh.Name, n, MaxRows)
		}
		if n := sh.NumCols(); n > MaxCols {
			return fmt.Errorf("%w: лист %s: %d колонок, предел xls %d", model.ErrCapacityExceeded, sh.Name, n, MaxCols)
		}
		for _, m := range sh.Merges {
			if m.LastRow >= MaxRows {
				return fmt.Errorf("%w: лист %s: объединение за строкой %d", model.ErrCapacityExceeded, sh.Name, MaxRows)
			}
		}
		for ri, r := range sh.Rows {
			if r == nil {
				continue
			}
			for ci, c := range r.Cells {
				if c.Value.Kind == model.KindText && charCount(c.Value.Str) > MaxStringChars {
					return model.NewCellError(sh.Name, ri, ci, "", fmt.Errorf("%w: строка длиннее %d символов", model.ErrCapacityExceeded, MaxStringChars))
				}
			}
		}
	}
	return nil
}

type encoder struct {
	wb      *model.Workbook
	pal     *palette
	fonts   []model.Font
	fontIdx map[model.Font]int
	formats []string
	fmtIdx  map[string]int
	sst     *model.StringTable
}

func encodeWorkbook(wb *model.Workbook) ([]byte, error) {
	e := &encoder{
		wb:      wb,
		pal:     newPalette(),
		fontIdx: map[model.Font]int{},
		fmtIdx:  map[string]int{},
		sst:     model.SharedStrings(wb),
	}

	for _, st := range wb.Styles {
		e.font(st.Font)
	}
	for len(e.fonts) < 4 {
		e.fonts = append(e.fonts, e.fonts[0])
	}
	fontRecs := make([][]byte, len(e.fonts))
	for i, f := range e.fonts {
		fontRecs[i] = e.fontRecord(f)
	}
	xfRecs := make([][]byte, len(wb.Styles))
	for i, st := range wb.Styles {
		xfRecs[i] = e.cellXF(st)
	}

	var g builder
	g.record(recBOF, bof(bofGlobals))
	g.record(recCodepage, fields{}.u16(1200))
	g.record(recWindow1, fields{}.u16(0).u16(0).u16(0x3A5C).u16(0x2328).u16(0x0038).u16(0).u16(0).u16(1).u16(0x0258))
	g.record(recDateMode, fields{}.u16(0))
	for _, f := range fontRecs {
		g.record(recFont, f)
	}
	for i, code := range e.formats {
		g.record(recFormat, fields{}.u16(uint16(firstCustomFormat+i)).raw(xlString(code, 2)))
	}
	for i := 0; i < firstCellXF; i++ {
		g.record(recXF, styleXF(i))
	}
	for _, x := range xfRecs {
		g.record(recXF, x)
	}
	g.record(recStyle, fields{}.u16(0x8000).u8(0).u8(0xFF))
	if e.pal.custom {
		g.record(recPalette, e.pal.record())
	}
	sheetPos := make([]int, len(wb.Sheets))
	for i, sh := range wb.Sheets {
		sheetPos[i] = g.len() + 4
		g.record(recBoundSheet, fields{}.u32(0).u8(0).u8(0).raw(xlString(sh.Name, 1)))
	}
	writeSST(&g, e.sst)
	g.record(recEOF, nil)

	stream := g.buf
	for i, sh := range wb.Sheets {
		binary.LittleEndian.PutUint32(stream[sheetPos[i]:], uint32(len(stream)))
		body, err := e.sheet(sh, i == 0)
		if err != nil {
			return nil, err
		}
		stream = append(stream, body...)
	}
	return stream, nil
}

func bof(dt uint16) []byte {
	return fields{}.u16(biff8Version).u16(dt).u16(0x0DBB).u16(0x07CC).u32(0).u32(0x06)
}

const firstCustomFormat = 164

func (e *encoder) font(f model.Font) int {
	if i, ok := e.fontIdx[f]; ok {
		return i
	}
	e.fonts = append(e.fonts, f)
	e.fontIdx[f] = len(e.fonts) - 1
	return len(e.fonts) - 1
}

// fontRef пересчитывает индекс шрифта для XF: индекс 4 в BIFF не используется.
func fontRef(i int) uint16 {
	if i >= 4 {
		return uint16(i + 1)
	}
	return uint16(i)
}

func (e *encoder) fontRecord(f model.Font) []byte {
	var grbit uint16
	if f.Italic {
		grbit |= 0x0002
	}
	if f.Strike {
		grbit |= 0x0008
	}
	icv := uint16(icvFontAuto)
	if f.Color != "" {
		if c, ok := e.pal.index(f.Color); ok {
			icv = c
		}
	}
	bls := uint16(400)
	if f.Bold {
		bls = 700
	}
	var uls uint8
	if f.Under {
		uls = 0x01
	}
	size := f.Size
	if size == 0 {
		size = model.DefaultFont.Size
	}
	name := f.Name
	if name == "" {
		name = model.DefaultFont.Name
	}
	return fields{}.u16(uint16(math.Round(size * 20))).u16(grbit).u16(icv).u16(bls).u16(0).
		u8(uls).u8(0).u8(0).u8(0).raw(xlString(name, 1))
}

func (e *encoder) formatID(code string) uint16 {
	if id, ok := model.BuiltinFormatID(code); ok {
		return uint16(id)
	}
	if i, ok := e.fmtIdx[code]; ok {
		return uint16(firstCustomFormat + i)
	}
	e.formats = append(e.formats, code)
	e.fmtIdx[code] = len(e.formats) - 1
	return uint16(firstCustomFormat + len(e.formats) - 1)
}

var horizontalCodes = map[string]uint8{"": 0, "general": 0, "left": 1, "center": 2, "right": 3, "fill": 4, "justify": 5, "centerContinuous": 6}
var verticalCodes = map[string]uint8{"top": 0, "center": 1, "": 2, "bottom": 2, "justify": 3}

func styleXF(i int) []byte {
	used := uint8(0xF4)
	typ := uint16(0xFFF5)
	if i == 0 {
		used = 0
	}
	if i == firstCellXF-1 {
		typ, used = 0x0001, 0
	}
	return fields{}.u16(0).u16(0).u16(typ).u8(0x20).u8(0).u8(0).u8(used).
		u32(0).u32(0).u16(icvAuto | icvAutoBack<<7)
}

func (e *encoder) cellXF(st model.Style) []byte {
	align := horizontalCodes[st.Horizontal] | verticalCodes[st.Vertical]<<4
	if st.Wrap {
		align |= 0x08
	}
	lineColor := func(b model.Border) uint32 {
		if b == 0 {
			return 0
		}
		return 8 // чёрный
	}
	border1 := uint32(st.Left&0x0F) | uint32(st.Right&0x0F)<<4 | uint32(st.Top&0x0F)<<8 | uint32(st.Bottom&0x0F)<<12 |
		lineColor(st.Left)<<16 | lineColor(st.Right)<<23
	border2 := lineColor(st.Top) | lineColor(st.Bottom)<<7
	fill := uint16(icvAuto | icvAutoBack<<7)
	if st.Fill != "" {
		if icv, ok := e.pal.index(st.Fill); ok {
			border2 |= 1 << 26 // сплошная заливка
			fill = icv | icvAutoBack<<7
		}
	}
	return fields{}.u16(fontRef(e.font(st.Font))).u16(e.formatID(st.NumFmt)).u16(0x0001).
		u8(align).u8(0).u8(0).u8(0xFC).u32(border1).u32(border2).u16(fill)
}

func (e *encoder) xf(style int) uint16 {
	if style < 0 || style >= len(e.wb.Styles) {
		style = 0
	}
	return uint16(firstCellXF + style)
}

func (e *encoder) sheet(sh *model.Sheet, first bool) ([]byte, error) {
	var b builder
	b.record(recBOF, bof(bofWorksheet))
	if sh.DefaultColWidth > 0 {
		b.record(recDefColWidth, fields{}.u16(uint16(math.Round(sh.DefaultColWidth))))
	}
	for _, c := range sh.Cols {
		if c.First >= MaxCols {
			continue
		}
		last := min(c.Last, MaxCols-1)
		width := c.Width
		if width <= 0 {
			width = 8.43
		}
		var grbit uint16
		if c.Hidden {
			grbit = 0x0001
		}
		b.record(recColInfo, fields{}.u16(uint16(c.First)).u16(uint16(last)).
			u16(uint16(math.Min(width*256, 0xFFFF))).u16(e.xf(c.Style)).u16(grbit).u16(0))
	}
	nRows, nCols := sh.NumRows(), sh.NumCols()
	b.record(recDimensions, fields{}.u32(0).u32(uint32(nRows)).u16(0).u16(uint16(nCols)).u16(0))

	for start := 0; start < nRows; start += rowBlock {
		end := min(start+rowBlock, nRows)
		for ri := start; ri < end; ri++ {
			if r := sh.Row(ri); r != nil {
				b.record(recRow, e.rowRecord(ri, r))
			}
		}
		for ri := start; ri < end; ri++ {
			r := sh.Row(ri)
			if r == nil {
				continue
			}
			for ci, c := range r.Cells {
				if err := e.cell(&b, sh, ri, ci, c); err != nil {
					return nil, err
				}
			}
		}
	}

	grbit := uint16(0x00B6)
	if first {
		grbit |= 0x0600
	}
	b.record(recWindow2, fields{}.u16(grbit).u16(0).u16(0).u16(icvAuto).u16(0).u16(0).u16(0).u32(0))
	for i := 0; i < len(sh.Merges); i += maxMergesInRec {
		chunk := sh.Merges[i:min(i+maxMergesInRec, len(sh.Merges))]
		f := fields{}.u16(uint16(len(chunk)))
		for _, m := range chunk {
			f = f.u16(uint16(m.FirstRow)).u16(uint16(m.LastRow)).u16(uint16(m.FirstCol)).u16(uint16(m.LastCol))
		}
		b.record(recMergeCells, f)
	}
	b.record(recEOF, nil)
	return b.buf, nil
}

func (e *encoder) rowRecord(ri int, r *model.Row) []byte {
	first, last := -1, 0
	for ci, c := range r.Cells {
		if c.Value.Kind == model.KindEmpty && c.Style == 0 {
			continue
		}
		if first < 0 {
			first = ci
		}
		last = ci + 1
	}
	if first < 0 {
		first = 0
	}
	flags := uint16(0x0100)
	height := uint16(defaultRowTwip)
	if r.Height > 0 {
		height = uint16(math.Round(r.Height * 20))
		flags |= 0x0040
	}
	if r.Hidden {
		flags |= 0x0020
	}
	ixfe := uint16(0x0F)
	if r.Style != 0 {
		flags |= 0x0080
		ixfe = e.xf(r.Style)
	}
	return fields{}.u16(uint16(ri)).u16(uint16(first)).u16(uint16(last)).u16(height).
		u16(0).u16(0).u16(flags).u16(ixfe)
}

func (e *encoder) cell(b *builder, sh *model.Sheet, ri, ci int, c model.Cell) error {
	head := fields{}.u16(uint16(ri)).u16(uint16(ci)).u16(e.xf(c.Style))
	v := c.Value
	switch v.Kind {
	case model.KindEmpty:
		if c.Style != 0 {
			b.record(recBlank, head)
		}
	case model.KindText:
		isst, _ := e.sst.Index(v.Str)
		b.record(recLabelSST, head.u32(uint32(isst)))
	case model.KindNumber, model.KindDate:
		b.record(recNumber, head.f64(v.Num))
	case model.KindBool:
		var x uint8
		if v.Bool {
			x = 1
		}
		b.record(recBoolErr, head.u8(x).u8(0))
	case model.KindError:
		code, ok := errorCodes[v.Str]
		if !ok {
			code = errorCodes["#N/A"]
		}
		b.record(recBoolErr, head.u8(code).u8(1))
	case model.KindFormula:
		rgce, err := compileFormula(v.Formula)
		if err != nil {
			return model.NewCellError(sh.Name, ri, ci, "", err)
		}
		if len(rgce) > 0xFFFF {
			return model.NewCellError(sh.Name, ri, ci, "", fmt.Errorf("%w: формула слишком длинная", model.ErrCapacityExceeded))
		}
		b.recordCont(recFormula, head.f64(0).u16(0x0003).u32(0).u16(uint16(len(rgce))).raw(rgce))
	case model.KindTag:
		return model.NewCellError(sh.Name, ri, ci, v.String(), model.ErrUnresolvedTag)
	}
	return nil
}
