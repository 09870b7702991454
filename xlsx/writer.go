package xlsx

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/klauspost/compress/zip"
	"github.com/xuri/excelize/v2"

	"github.com/nikitaxru/reportbook/model"
)

// имена линий в порядке model.Border
var borderNames = [...]string{
	"", "thin", "medium", "dashed", "dotted", "thick", "double", "hair",
	"mediumDashed", "dashDot", "mediumDashDot", "dashDotDot", "mediumDashDotDot", "slantDashDot",
}

const firstCustomFormat = 164

type workbookView struct {
	Sheets []string
}

type numFmtView struct {
	ID   int
	Code string
}

type fontView struct {
	Bold, Italic, Strike, Under bool
	Size                        string
	Color                       string
	Name                        string
}

type borderView struct {
	Left, Right, Top, Bottom string
}

type xfView struct {
	NumFmt, Font, Fill, Border int
	Aligned                    bool
	Horizontal, Vertical       string
	Wrap                       bool
}

type stylesView struct {
	NumFmts []numFmtView
	Fonts   []fontView
	Fills   []string
	Borders []borderView
	Xfs     []xfView
}

type sstView struct {
	Count   int
	Strings []string
}

type colView struct {
	Min, Max int
	Width    string
	Style    int
	Hidden   bool
}

type cellView struct {
	Ref     string
	Style   int
	Type    string
	Value   string
	Formula string
}

type rowView struct {
	Num    int
	Height string
	Style  int
	Hidden bool
	Cells  []cellView
}

type sheetView struct {
	Dimension       string
	Selected        bool
	DefaultColWidth string
	Cols            []colView
	Rows            []rowView
	Merges          []string
}

// Write кодирует книгу в пакет OOXML. Части пишутся в фиксированном порядке
// с нулевыми отметками времени, поэтому одинаковые книги дают одинаковые байты.
func Write(w io.Writer, wb *model.Workbook) error {
	if err := model.CheckBound(wb); err != nil {
		return err
	}
	if err := CheckCapacity(wb); err != nil {
		return err
	}
	sst := model.SharedStrings(wb)
	sheets := make([]*sheetView, len(wb.Sheets))
	for i, sh := range wb.Sheets {
		v, err := buildSheet(sh, sst, i == 0)
		if err != nil {
			return err
		}
		sheets[i] = v
	}
	book := &workbookView{}
	for _, sh := range wb.Sheets {
		book.Sheets = append(book.Sheets, sanitize(sh.Name))
	}
	strs := &sstView{Count: sst.Total, Strings: make([]string, len(sst.Strings))}
	for i, s := range sst.Strings {
		strs.Strings[i] = sanitize(s)
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name  string
		write func(io.Writer)
	}{
		{"[Content_Types].xml", func(w io.Writer) { writecontentTypes(w, len(sheets)) }},
		{"_rels/.rels", func(w io.Writer) { writerootRels(w) }},
		{"xl/workbook.xml", func(w io.Writer) { writeworkbook(w, book) }},
		{"xl/_rels/workbook.xml.rels", func(w io.Writer) { writeworkbookRels(w, len(sheets)) }},
		{"xl/styles.xml", func(w io.Writer) { writestyles(w, buildStyles(wb)) }},
		{"xl/sharedStrings.xml", func(w io.Writer) { writesharedStrings(w, strs) }},
		// без темы excelize не разбирает цвета заливок и границ
		{"xl/theme/theme1.xml", func(w io.Writer) { writetheme(w) }},
	}
	for i, v := range sheets {
		parts = append(parts, struct {
			name  string
			write func(io.Writer)
		}{fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1), func(w io.Writer) { writeworksheet(w, v) }})
	}
	for _, p := range parts {
		pw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("%w: %s: %w", model.ErrExportIO, p.name, err)
		}
		ew := &errWriter{w: pw}
		p.write(ew)
		if ew.err != nil {
			return fmt.Errorf("%w: %s: %w", model.ErrExportIO, p.name, ew.err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrExportIO, err)
	}
	return nil
}

// errWriter запоминает первую ошибку: шаблоны пишут без возврата ошибок.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// CheckCapacity проверяет пределы формата xlsx.
func CheckCapacity(wb *model.Workbook) error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("%w: книга без листов", model.ErrUnsupported)
	}
	if n := len(wb.Styles); n > excelize.MaxCellStyles {
		return fmt.Errorf("%w: %d стилей, предел xlsx %d", model.ErrCapacityExceeded, n, excelize.MaxCellStyles)
	}
	for _, sh := range wb.Sheets {
		if n := charCount(sh.Name); n == 0 || n > excelize.MaxSheetNameLength {
			return fmt.Errorf("%w: имя листа %q длиной %d, предел xlsx %d", model.ErrCapacityExceeded, sh.Name, n, excelize.MaxSheetNameLength)
		}
		if n := sh.NumRows(); n > excelize.TotalRows {
			return fmt.Errorf("%w: лист %s: %d строк, предел xlsx %d", model.ErrCapacityExceeded, sh.Name, n, excelize.TotalRows)
		}
		if n := sh.NumCols(); n > excelize.MaxColumns {
			return fmt.Errorf("%w: лист %s: %d колонок, предел xlsx %d", model.ErrCapacityExceeded, sh.Name, n, excelize.MaxColumns)
		}
		for ri, r := range sh.Rows {
			if r == nil {
				continue
			}
			for ci, c := range r.Cells {
				if c.Value.Kind == model.KindText && charCount(c.Value.Str) > excelize.TotalCellChars {
					return model.NewCellError(sh.Name, ri, ci, "", fmt.Errorf("%w: строка длиннее %d символов", model.ErrCapacityExceeded, excelize.TotalCellChars))
				}
			}
		}
	}
	return nil
}

// charCount считает длину строки в кодовых единицах UTF-16, как её считает Excel.
func charCount(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// sanitize заменяет символы, недопустимые в XML 1.0, на экранирование _xHHHH_.
func sanitize(s string) string {
	if strings.IndexFunc(s, invalidXML) < 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if invalidXML(r) {
			fmt.Fprintf(&b, "_x%04X_", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func invalidXML(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20, r == 0xFFFE, r == 0xFFFF, r >= 0xD800 && r <= 0xDFFF:
		return true
	}
	return false
}

func formatFloat(f float64) string {
	if a := math.Abs(f); a == 0 || (a >= 1e-5 && a < 1e15) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'E', -1, 64)
}

func buildStyles(wb *model.Workbook) *stylesView {
	v := &stylesView{Borders: []borderView{{}}}
	fmtIdx := map[string]int{}
	fontIdx := map[model.Font]int{}
	fillIdx := map[string]int{}
	borderIdx := map[borderView]int{{}: 0}

	for _, st := range wb.Styles {
		x := xfView{
			Horizontal: st.Horizontal,
			Vertical:   st.Vertical,
			Wrap:       st.Wrap,
		}
		x.Aligned = x.Horizontal != "" || x.Vertical != "" || x.Wrap

		if id, ok := model.BuiltinFormatID(st.NumFmt); ok {
			x.NumFmt = id
		} else if id, ok := fmtIdx[st.NumFmt]; ok {
			x.NumFmt = id
		} else {
			x.NumFmt = firstCustomFormat + len(v.NumFmts)
			fmtIdx[st.NumFmt] = x.NumFmt
			v.NumFmts = append(v.NumFmts, numFmtView{ID: x.NumFmt, Code: sanitize(st.NumFmt)})
		}

		if i, ok := fontIdx[st.Font]; ok {
			x.Font = i
		} else {
			f := st.Font
			if f.Name == "" {
				f.Name = model.DefaultFont.Name
			}
			if f.Size == 0 {
				f.Size = model.DefaultFont.Size
			}
			x.Font = len(v.Fonts)
			fontIdx[st.Font] = x.Font
			v.Fonts = append(v.Fonts, fontView{
				Bold:   f.Bold,
				Italic: f.Italic,
				Strike: f.Strike,
				Under:  f.Under,
				Size:   strconv.FormatFloat(f.Size, 'f', -1, 64),
				Color:  f.Color,
				Name:   sanitize(f.Name),
			})
		}

		if st.Fill != "" {
			if i, ok := fillIdx[st.Fill]; ok {
				x.Fill = i
			} else {
				x.Fill = 2 + len(v.Fills)
				fillIdx[st.Fill] = x.Fill
				v.Fills = append(v.Fills, st.Fill)
			}
		}

		b := borderView{
			Left:   borderName(st.Left),
			Right:  borderName(st.Right),
			Top:    borderName(st.Top),
			Bottom: borderName(st.Bottom),
		}
		if i, ok := borderIdx[b]; ok {
			x.Border = i
		} else {
			x.Border = len(v.Borders)
			borderIdx[b] = x.Border
			v.Borders = append(v.Borders, b)
		}
		v.Xfs = append(v.Xfs, x)
	}
	return v
}

func borderName(b model.Border) string {
	if int(b) >= len(borderNames) {
		return borderNames[1]
	}
	return borderNames[b]
}

func buildSheet(sh *model.Sheet, sst *model.StringTable, first bool) (*sheetView, error) {
	nRows, nCols := sh.NumRows(), sh.NumCols()
	v := &sheetView{Dimension: "A1", Selected: first}
	if nRows > 0 && nCols > 0 {
		v.Dimension = "A1:" + model.CellName(nCols-1, nRows-1)
	}
	if sh.DefaultColWidth > 0 {
		v.DefaultColWidth = formatFloat(sh.DefaultColWidth)
	}
	for _, c := range sh.Cols {
		if c.First >= excelize.MaxColumns {
			continue
		}
		cv := colView{Min: c.First + 1, Max: min(c.Last, excelize.MaxColumns-1) + 1, Style: c.Style, Hidden: c.Hidden}
		if c.Width > 0 {
			cv.Width = formatFloat(c.Width)
		}
		v.Cols = append(v.Cols, cv)
	}
	for ri := 0; ri < nRows; ri++ {
		r := sh.Row(ri)
		if r == nil {
			continue
		}
		rv := rowView{Num: ri + 1, Style: r.Style, Hidden: r.Hidden}
		if r.Height > 0 {
			rv.Height = formatFloat(r.Height)
		}
		for ci, c := range r.Cells {
			cv, ok, err := buildCell(sh, sst, ri, ci, c)
			if err != nil {
				return nil, err
			}
			if ok {
				rv.Cells = append(rv.Cells, cv)
			}
		}
		v.Rows = append(v.Rows, rv)
	}
	for _, m := range sh.Merges {
		v.Merges = append(v.Merges, model.CellName(m.FirstCol, m.FirstRow)+":"+model.CellName(m.LastCol, m.LastRow))
	}
	return v, nil
}

func buildCell(sh *model.Sheet, sst *model.StringTable, ri, ci int, c model.Cell) (cellView, bool, error) {
	cv := cellView{Ref: model.CellName(ci, ri), Style: c.Style}
	v := c.Value
	switch v.Kind {
	case model.KindEmpty:
		return cv, c.Style != 0, nil
	case model.KindText:
		i, _ := sst.Index(v.Str)
		cv.Type, cv.Value = "s", strconv.Itoa(i)
	case model.KindNumber, model.KindDate:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			cv.Type, cv.Value = "e", "#NUM!"
			break
		}
		cv.Value = formatFloat(v.Num)
	case model.KindBool:
		cv.Type, cv.Value = "b", "0"
		if v.Bool {
			cv.Value = "1"
		}
	case model.KindError:
		cv.Type, cv.Value = "e", v.Str
	case model.KindFormula:
		cv.Formula = sanitize(v.Formula)
	case model.KindTag:
		return cv, false, model.NewCellError(sh.Name, ri, ci, v.String(), model.ErrUnresolvedTag)
	}
	return cv, true, nil
}
