package reportbook_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/nikitaxru/reportbook"
	"github.com/nikitaxru/reportbook/model"
	"github.com/nikitaxru/reportbook/xls"
	"github.com/nikitaxru/reportbook/xlsx"
)

// ReportSuite — сьют тестов заполнения шаблонов
type ReportSuite struct {
	suite.Suite
}

// Runner
func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportSuite))
}

// saveTemplate собирает шаблон xlsx через excelize и сохраняет во временный каталог
func (s *ReportSuite) saveTemplate(name string, build func(f *excelize.File, sheet string)) string {
	path := filepath.Join(s.T().TempDir(), name)
	f := excelize.NewFile()
	build(f, "Sheet1")
	s.Require().NoError(f.SaveAs(path), "save template")
	return path
}

func (s *ReportSuite) load(path string) *reportbook.Template {
	tmpl, err := reportbook.LoadTemplate(path)
	s.Require().NoError(err, "load template")
	return tmpl
}

// reread кодирует книгу и читает её обратно как шаблон без тегов
func (s *ReportSuite) reread(wb *model.Workbook, f reportbook.Format) *model.Workbook {
	var buf bytes.Buffer
	s.Require().NoError(reportbook.Encode(&buf, wb, f), "encode %s", f)
	tmpl, err := reportbook.ParseTemplate(&buf)
	s.Require().NoError(err, "reread %s", f)
	s.Require().Equal(f, tmpl.Format())
	out, err := tmpl.Workbook()
	s.Require().NoError(err)
	return out
}

func cellAt(wb *model.Workbook, sheet, axis string) model.Value {
	sh := wb.Sheet(sheet)
	if sh == nil {
		return model.Value{}
	}
	col, row, err := excelize.CellNameToCoordinates(axis)
	if err != nil {
		return model.Value{}
	}
	if c := sh.Cell(row-1, col-1); c != nil {
		return c.Value
	}
	return model.Value{}
}

func invoiceTemplate(f *excelize.File, sheet string) {
	_ = f.SetCellValue(sheet, "A1", "Счёт для ${customer}")
	_ = f.SetCellValue(sheet, "A2", "Дата")
	_ = f.SetCellValue(sheet, "B2", "${date}")
	_ = f.SetCellValue(sheet, "A4", "Товар")
	_ = f.SetCellValue(sheet, "B4", "Кол-во")
	_ = f.SetCellValue(sheet, "C4", "Цена")
	_ = f.SetCellValue(sheet, "D4", "Сумма")
	_ = f.SetCellValue(sheet, "A5", "$R[]{item}")
	_ = f.SetCellValue(sheet, "B5", "$R[]{qty}")
	_ = f.SetCellValue(sheet, "C5", "$R[]{price}")
	_ = f.SetCellFormula(sheet, "D5", "B5*C5")
	_ = f.SetCellValue(sheet, "C6", "Итого")
	_ = f.SetCellFormula(sheet, "D6", "SUM(D5:D5)")
}

var invoiceDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func invoiceParams() *reportbook.Params {
	return reportbook.NewParams().
		Bind("customer", reportbook.Text("ООО Ромашка")).
		Bind("date", reportbook.Date(invoiceDate)).
		BindSeq("item", reportbook.Text("Болт"), reportbook.Text("Гайка"), reportbook.Text("Шайба")).
		BindSeq("qty", reportbook.Int(10), reportbook.Int(20), reportbook.Int(30)).
		BindSeq("price", reportbook.Decimal(150, 2), reportbook.Decimal(75, 2), reportbook.Decimal(20, 2))
}

// assertInvoice проверяет заполненный счёт в любой из моделей
func (s *ReportSuite) assertInvoice(wb *model.Workbook) {
	sheet := "Sheet1"
	s.Assert().Equal("Счёт для ООО Ромашка", cellAt(wb, sheet, "A1").String())

	date := cellAt(wb, sheet, "B2")
	s.Assert().Equal(model.KindDate, date.Kind)
	s.Assert().Equal(model.TimeToSerial(invoiceDate), date.Num)

	for i, want := range []string{"Болт", "Гайка", "Шайба"} {
		row := string(rune('5' + i))
		s.Assert().Equal(want, cellAt(wb, sheet, "A"+row).String(), "A%s", row)
		s.Assert().Equal(model.KindNumber, cellAt(wb, sheet, "B"+row).Kind, "B%s", row)
		s.Assert().Equal(model.KindFormula, cellAt(wb, sheet, "D"+row).Kind, "D%s", row)
		s.Assert().Equal("B"+row+"*C"+row, cellAt(wb, sheet, "D"+row).Formula, "D%s", row)
	}
	s.Assert().Equal(10.0, cellAt(wb, sheet, "B5").Num)
	s.Assert().Equal(30.0, cellAt(wb, sheet, "B7").Num)
	s.Assert().InDelta(1.5, cellAt(wb, sheet, "C5").Num, 1e-9)
	s.Assert().InDelta(0.75, cellAt(wb, sheet, "C6").Num, 1e-9)
	s.Assert().InDelta(0.2, cellAt(wb, sheet, "C7").Num, 1e-9)

	s.Assert().Equal("Итого", cellAt(wb, sheet, "C8").String())
	s.Assert().Equal("SUM(D5:D7)", cellAt(wb, sheet, "D8").Formula)
	s.Assert().Equal(8, wb.Sheet(sheet).NumRows())
}

// TestInvoice — сквозной сценарий: шаблон xlsx, три позиции, итог ниже таблицы
func (s *ReportSuite) TestInvoice() {
	tmpl := s.load(s.saveTemplate("invoice.xlsx", invoiceTemplate))
	s.Assert().Equal(reportbook.FormatXLSX, tmpl.Format())
	s.Assert().Equal([]string{"customer", "date", "item", "qty", "price"}, tmpl.Tags().Names())

	wb, err := reportbook.Bind(tmpl, invoiceParams())
	s.Require().NoError(err, "bind")
	s.assertInvoice(wb)

	for _, f := range []reportbook.Format{reportbook.FormatXLS, reportbook.FormatXLSX} {
		s.Run(f.String(), func() {
			s.assertInvoice(s.reread(wb, f))
		})
	}
}

// TestProcessor — обработка с записью обоих форматов на диск
func (s *ReportSuite) TestProcessor() {
	templatePath := s.saveTemplate("invoice.xlsx", invoiceTemplate)
	base := filepath.Join(s.T().TempDir(), "invoice")

	var p reportbook.Processor
	paths, err := p.Run(reportbook.Report{
		TemplatePath: templatePath,
		OutputBase:   base,
		Formats:      []reportbook.Format{reportbook.FormatXLS, reportbook.FormatXLSX},
		Params:       invoiceParams(),
	})
	s.Require().NoError(err, "run")
	s.Require().Equal([]string{base + ".xls", base + ".xlsx"}, paths)

	out, err := excelize.OpenFile(base + ".xlsx")
	s.Require().NoError(err, "open output")
	defer func() { _ = out.Close() }()
	v, _ := out.GetCellValue("Sheet1", "A1")
	s.Assert().Equal("Счёт для ООО Ромашка", v)
	v, _ = out.GetCellValue("Sheet1", "A7")
	s.Assert().Equal("Шайба", v)
	formula, _ := out.GetCellFormula("Sheet1", "D8")
	s.Assert().Equal("SUM(D5:D7)", formula)

	tmpl := s.load(base + ".xls")
	s.Assert().Equal(reportbook.FormatXLS, tmpl.Format())
	s.Assert().Empty(tmpl.Tags())
}

func repeatTemplate(f *excelize.File, sheet string) {
	_ = f.SetCellValue(sheet, "A1", "Header")
	_ = f.SetCellValue(sheet, "A2", "$R[]{item}")
	_ = f.SetCellValue(sheet, "B2", "static")
	_ = f.MergeCell(sheet, "C2", "D2")
	_ = f.SetCellValue(sheet, "A4", "Footer")
	_ = f.MergeCell(sheet, "A4", "B4")
	_ = f.SetRowHeight(sheet, 2, 30)
}

func texts(vs ...string) []reportbook.Scalar {
	out := make([]reportbook.Scalar, len(vs))
	for i, v := range vs {
		out[i] = reportbook.Text(v)
	}
	return out
}

// TestRowRepeat — N=3, N=1 и N=0 для одной строки повтора
func (s *ReportSuite) TestRowRepeat() {
	tmpl := s.load(s.saveTemplate("repeat.xlsx", repeatTemplate))

	s.Run("three", func() {
		wb, err := reportbook.Bind(tmpl, reportbook.NewParams().BindSeq("item", texts("a", "b", "c")...))
		s.Require().NoError(err)
		sh := wb.Sheet("Sheet1")
		for i, want := range []string{"a", "b", "c"} {
			row := string(rune('2' + i))
			s.Assert().Equal(want, cellAt(wb, "Sheet1", "A"+row).String())
			s.Assert().Equal("static", cellAt(wb, "Sheet1", "B"+row).String())
			s.Assert().Equal(30.0, sh.Row(1+i).Height)
		}
		s.Assert().Equal("Footer", cellAt(wb, "Sheet1", "A6").String())
		s.Assert().ElementsMatch([]model.Range{
			{FirstRow: 1, LastRow: 1, FirstCol: 2, LastCol: 3},
			{FirstRow: 2, LastRow: 2, FirstCol: 2, LastCol: 3},
			{FirstRow: 3, LastRow: 3, FirstCol: 2, LastCol: 3},
			{FirstRow: 5, LastRow: 5, FirstCol: 0, LastCol: 1},
		}, sh.Merges)
	})

	s.Run("one", func() {
		wb, err := reportbook.Bind(tmpl, reportbook.NewParams().BindSeq("item", texts("only")...))
		s.Require().NoError(err)
		s.Assert().Equal("only", cellAt(wb, "Sheet1", "A2").String())
		s.Assert().Equal("Footer", cellAt(wb, "Sheet1", "A4").String())
		s.Assert().Len(wb.Sheet("Sheet1").Merges, 2)
	})

	s.Run("zero", func() {
		wb, err := reportbook.Bind(tmpl, reportbook.NewParams().BindSeq("item"))
		s.Require().NoError(err)
		sh := wb.Sheet("Sheet1")
		s.Assert().Equal("Header", cellAt(wb, "Sheet1", "A1").String())
		s.Assert().Empty(cellAt(wb, "Sheet1", "A2").String())
		s.Assert().Equal("Footer", cellAt(wb, "Sheet1", "A3").String())
		s.Assert().Equal([]model.Range{{FirstRow: 2, LastRow: 2, FirstCol: 0, LastCol: 1}}, sh.Merges)
	})
}

// TestRepeatOptions — minRepeatNum, repeatNum и omitDuplicate
func (s *ReportSuite) TestRepeatOptions() {
	path := s.saveTemplate("options.xlsx", func(f *excelize.File, sheet string) {
		_ = f.SetCellValue(sheet, "A1", "$R[minRepeatNum=3]{pad}")
		_ = f.SetCellValue(sheet, "A5", "$R[repeatNum=2]{capped}")
		_ = f.SetCellValue(sheet, "A7", "$R[omitDuplicate=true]{group}")
		_ = f.SetCellValue(sheet, "B7", "$R[]{value}")
	})
	tmpl := s.load(path)
	s.Require().Len(tmpl.Tags(), 4)
	s.Assert().Equal(3, tmpl.Tags()[0].Tag.MinRepeat)
	s.Assert().Equal(2, tmpl.Tags()[1].Tag.MaxRepeat)
	s.Assert().True(tmpl.Tags()[2].Tag.OmitDuplicate)

	params := reportbook.NewParams().
		BindSeq("pad", texts("p1")...).
		BindSeq("capped", texts("c1", "c2", "c3", "c4")...).
		BindSeq("group", texts("g1", "g1", "g2")...).
		BindSeq("value", reportbook.Int(1), reportbook.Int(2), reportbook.Int(3))
	wb, err := reportbook.Bind(tmpl, params)
	s.Require().NoError(err)

	// pad: 3 строки, лишние пустые; ниже всё сдвинуто на 2
	s.Assert().Equal("p1", cellAt(wb, "Sheet1", "A1").String())
	s.Assert().True(cellAt(wb, "Sheet1", "A2").IsEmpty())
	s.Assert().True(cellAt(wb, "Sheet1", "A3").IsEmpty())
	// capped: 2 строки из 4, с A7
	s.Assert().Equal("c1", cellAt(wb, "Sheet1", "A7").String())
	s.Assert().Equal("c2", cellAt(wb, "Sheet1", "A8").String())
	// group: с A10, повтор g1 опущен
	s.Assert().Equal("g1", cellAt(wb, "Sheet1", "A10").String())
	s.Assert().True(cellAt(wb, "Sheet1", "A11").IsEmpty())
	s.Assert().Equal("g2", cellAt(wb, "Sheet1", "A12").String())
	s.Assert().Equal(2.0, cellAt(wb, "Sheet1", "B11").Num)
}

// TestRunningTotals — формулы размножаемой строки смещаются от исходной,
// а итог под блоком охватывает все копии
func (s *ReportSuite) TestRunningTotals() {
	path := s.saveTemplate("totals.xlsx", func(f *excelize.File, sheet string) {
		_ = f.SetCellValue(sheet, "A2", "$R[]{v}")
		_ = f.SetCellFormula(sheet, "B2", "SUM($A$2:A2)")
		_ = f.SetCellFormula(sheet, "C2", "SUM(A2:A2)")
		_ = f.SetCellFormula(sheet, "A3", "SUM(A2:A2)")
	})
	wb, err := reportbook.Bind(s.load(path), reportbook.NewParams().
		BindSeq("v", reportbook.Int(1), reportbook.Int(2), reportbook.Int(3)))
	s.Require().NoError(err)

	for i, want := range []string{"SUM($A$2:A2)", "SUM($A$2:A3)", "SUM($A$2:A4)"} {
		s.Assert().Equal(want, cellAt(wb, "Sheet1", "B"+string(rune('2'+i))).Formula)
	}
	for i, want := range []string{"SUM(A2:A2)", "SUM(A3:A3)", "SUM(A4:A4)"} {
		s.Assert().Equal(want, cellAt(wb, "Sheet1", "C"+string(rune('2'+i))).Formula)
	}
	s.Assert().Equal("SUM(A2:A4)", cellAt(wb, "Sheet1", "A5").Formula)
}

// TestBindErrors — классы ошибок заполнения с местом в шаблоне
func (s *ReportSuite) TestBindErrors() {
	tmpl := s.load(s.saveTemplate("invoice.xlsx", invoiceTemplate))

	s.Run("length mismatch", func() {
		p := invoiceParams().BindSeq("qty", reportbook.Int(1), reportbook.Int(2))
		_, err := reportbook.Bind(tmpl, p)
		s.Require().ErrorIs(err, reportbook.ErrRowGroupLengthMismatch)
		var ce *reportbook.CellError
		s.Require().ErrorAs(err, &ce)
		s.Assert().Equal("Sheet1", ce.Sheet)
		s.Assert().Equal(4, ce.Row)
	})

	s.Run("unbound", func() {
		p := reportbook.NewParams().
			Bind("date", reportbook.Date(invoiceDate)).
			BindSeq("item", texts("x")...).
			BindSeq("qty", reportbook.Int(1)).
			BindSeq("price", reportbook.Int(1))
		_, err := reportbook.Bind(tmpl, p)
		s.Require().ErrorIs(err, reportbook.ErrUnboundParameter)
		var ce *reportbook.CellError
		s.Require().ErrorAs(err, &ce)
		s.Assert().Equal("${customer}", ce.Tag)
		s.Assert().Equal(0, ce.Row)
		s.Assert().Equal(0, ce.Col)
	})

	s.Run("scalar for repeat", func() {
		p := invoiceParams().Bind("item", reportbook.Text("x"))
		_, err := reportbook.Bind(tmpl, p)
		s.Require().ErrorIs(err, reportbook.ErrTypeMismatch)
	})

	s.Run("sequence for single", func() {
		p := invoiceParams().BindSeq("customer", texts("a", "b")...)
		_, err := reportbook.Bind(tmpl, p)
		s.Require().ErrorIs(err, reportbook.ErrTypeMismatch)
	})

	s.Run("mixed kinds", func() {
		p := invoiceParams().BindSeq("qty", reportbook.Int(1), reportbook.Text("2"), reportbook.Int(3))
		_, err := reportbook.Bind(tmpl, p)
		s.Require().ErrorIs(err, reportbook.ErrTypeMismatch)
	})
}

// TestDeclaredKind — числовой формат ячейки задаёт вид значения
func (s *ReportSuite) TestDeclaredKind() {
	path := s.saveTemplate("kinds.xlsx", func(f *excelize.File, sheet string) {
		num, _ := f.NewStyle(&excelize.Style{NumFmt: 2})
		text, _ := f.NewStyle(&excelize.Style{NumFmt: 49})
		_ = f.SetCellValue(sheet, "A1", "${amount}")
		_ = f.SetCellStyle(sheet, "A1", "A1", num)
		_ = f.SetCellValue(sheet, "A2", "${code}")
		_ = f.SetCellStyle(sheet, "A2", "A2", text)
		_ = f.SetCellValue(sheet, "A3", "${total}")
	})
	tmpl := s.load(path)

	wb, err := reportbook.Bind(tmpl, reportbook.NewParams().
		Bind("amount", reportbook.Text("12.5")).
		Bind("code", reportbook.Int(7)).
		Bind("total", reportbook.Decimal(1000000, 2)))
	s.Require().NoError(err)
	s.Assert().Equal(model.NumberValue(12.5), cellAt(wb, "Sheet1", "A1"))
	s.Assert().Equal(model.TextValue("7"), cellAt(wb, "Sheet1", "A2"))
	s.Assert().Equal(model.NumberValue(10000), cellAt(wb, "Sheet1", "A3"))

	_, err = reportbook.Bind(tmpl, reportbook.NewParams().
		Bind("amount", reportbook.Text("abc")).
		Bind("code", reportbook.Int(7)).
		Bind("total", reportbook.Int(1)))
	s.Require().ErrorIs(err, reportbook.ErrTypeMismatch)
}

// TestTemplateErrors — ошибки разбора тегов при загрузке
func (s *ReportSuite) TestTemplateErrors() {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"unknown kind", "$C[]{x}", reportbook.ErrUnknownTagKind},
		{"block kind", "$BR[]{x}", reportbook.ErrUnknownTagKind},
		{"repeat inside text", "total $R[]{x}", reportbook.ErrMalformedTemplate},
		{"unknown param", "$R[foo=1]{x}", reportbook.ErrMalformedTemplate},
		{"bad param type", "$R[omitDuplicate=3]{x}", reportbook.ErrMalformedTemplate},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			path := s.saveTemplate("bad.xlsx", func(f *excelize.File, sheet string) {
				_ = f.SetCellValue(sheet, "B3", tc.text)
			})
			_, err := reportbook.LoadTemplate(path)
			s.Require().ErrorIs(err, tc.want)
			var ce *reportbook.CellError
			s.Require().ErrorAs(err, &ce)
			s.Assert().Equal("Sheet1", ce.Sheet)
			s.Assert().Equal(2, ce.Row)
			s.Assert().Equal(1, ce.Col)
		})
	}

	_, err := reportbook.ParseTemplate(bytes.NewReader([]byte("not a spreadsheet")))
	s.Require().ErrorIs(err, reportbook.ErrMalformedTemplate)
}

// TestUnresolvedTag — модель с тегами не кодируется
func (s *ReportSuite) TestUnresolvedTag() {
	tmpl := s.load(s.saveTemplate("invoice.xlsx", invoiceTemplate))
	wb, err := tmpl.Workbook()
	s.Require().NoError(err)
	for _, f := range []reportbook.Format{reportbook.FormatXLS, reportbook.FormatXLSX} {
		var buf bytes.Buffer
		s.Require().ErrorIs(reportbook.Encode(&buf, wb, f), reportbook.ErrUnresolvedTag)
		s.Assert().Zero(buf.Len())
	}
}

// TestIdempotent — одинаковые входы дают одинаковые байты
func (s *ReportSuite) TestIdempotent() {
	tmpl := s.load(s.saveTemplate("invoice.xlsx", invoiceTemplate))
	for _, f := range []reportbook.Format{reportbook.FormatXLS, reportbook.FormatXLSX} {
		var out [2]bytes.Buffer
		for i := range out {
			wb, err := reportbook.Bind(tmpl, invoiceParams())
			s.Require().NoError(err)
			s.Require().NoError(reportbook.Encode(&out[i], wb, f))
		}
		s.Assert().Equal(out[0].Bytes(), out[1].Bytes(), "format %s", f)
	}
}

// rawInvoice — тот же шаблон счёта, собранный прямо в модели
func rawInvoice() *model.Workbook {
	wb := model.NewWorkbook()
	sh := wb.AddSheet("Sheet1")
	text := func(row, col int, s string) { sh.SetCell(row, col, model.Cell{Value: model.TextValue(s)}) }
	text(0, 0, "Счёт для ${customer}")
	text(1, 0, "Дата")
	text(1, 1, "${date}")
	text(3, 0, "Товар")
	text(3, 1, "Кол-во")
	text(3, 2, "Цена")
	text(3, 3, "Сумма")
	text(4, 0, "$R[]{item}")
	text(4, 1, "$R[]{qty}")
	text(4, 2, "$R[]{price}")
	sh.SetCell(4, 3, model.Cell{Value: model.FormulaValue("B5*C5")})
	text(5, 2, "Итого")
	sh.SetCell(5, 3, model.Cell{Value: model.FormulaValue("SUM(D5:D5)")})
	return wb
}

// TestFormatIndependence — шаблоны xls и xlsx с одинаковым содержимым дают одинаковые модели
func (s *ReportSuite) TestFormatIndependence() {
	dir := s.T().TempDir()
	xlsPath := filepath.Join(dir, "invoice.xls")
	xlsxPath := filepath.Join(dir, "invoice.xlsx")

	var buf bytes.Buffer
	s.Require().NoError(xls.Write(&buf, rawInvoice()))
	s.Require().NoError(os.WriteFile(xlsPath, buf.Bytes(), 0o644))
	buf.Reset()
	s.Require().NoError(xlsx.Write(&buf, rawInvoice()))
	s.Require().NoError(os.WriteFile(xlsxPath, buf.Bytes(), 0o644))

	fromXLS, err := reportbook.Bind(s.load(xlsPath), invoiceParams())
	s.Require().NoError(err)
	fromXLSX, err := reportbook.Bind(s.load(xlsxPath), invoiceParams())
	s.Require().NoError(err)
	s.assertInvoice(fromXLS)
	s.assertInvoice(fromXLSX)

	a, b := fromXLS.Sheet("Sheet1"), fromXLSX.Sheet("Sheet1")
	s.Require().Equal(a.NumRows(), b.NumRows())
	for ri := 0; ri < a.NumRows(); ri++ {
		for ci := 0; ci < max(a.NumCols(), b.NumCols()); ci++ {
			var va, vb model.Value
			if c := a.Cell(ri, ci); c != nil {
				va = c.Value
			}
			if c := b.Cell(ri, ci); c != nil {
				vb = c.Value
			}
			s.Assert().True(va.Equal(vb), "%s: %v != %v", model.CellName(ci, ri), va, vb)
		}
	}
}

// TestCapacity — 70000 строк не помещаются в xls, но помещаются в xlsx
func (s *ReportSuite) TestCapacity() {
	tmpl := s.load(s.saveTemplate("big.xlsx", func(f *excelize.File, sheet string) {
		_ = f.SetCellValue(sheet, "A1", "N")
		_ = f.SetCellValue(sheet, "A2", "$R[]{n}")
	}))
	seq := make([]reportbook.Scalar, 70000)
	for i := range seq {
		seq[i] = reportbook.Int(int64(i))
	}
	wb, err := reportbook.Bind(tmpl, reportbook.NewParams().BindSeq("n", seq...))
	s.Require().NoError(err)

	dir := s.T().TempDir()
	base := filepath.Join(dir, "big")
	_, err = reportbook.Export(wb, reportbook.FormatXLS, base)
	s.Require().ErrorIs(err, reportbook.ErrCapacityExceeded)
	_, statErr := os.Stat(base + ".xls")
	s.Assert().True(errors.Is(statErr, os.ErrNotExist), "no partial file")
	left, _ := filepath.Glob(filepath.Join(dir, "*"))
	s.Assert().Empty(left)
	left, _ = filepath.Glob(filepath.Join(dir, ".*"))
	s.Assert().Empty(left)

	path, err := reportbook.Export(wb, reportbook.FormatXLSX, base)
	s.Require().NoError(err)
	s.Assert().Equal(base+".xlsx", path)
	out, err := excelize.OpenFile(path)
	s.Require().NoError(err)
	defer func() { _ = out.Close() }()
	v, _ := out.GetCellValue("Sheet1", "A70001")
	s.Assert().Equal("69999", v)
}

// TestBindSheets — выбор и повтор листов шаблона с разными параметрами
func (s *ReportSuite) TestBindSheets() {
	tmpl := s.load(s.saveTemplate("book.xlsx", func(f *excelize.File, sheet string) {
		_ = f.SetSheetName(sheet, "Letter")
		_ = f.SetCellValue("Letter", "A1", "Уважаемый ${name}")
		_, _ = f.NewSheet("Notes")
		_ = f.SetCellValue("Notes", "A1", "${note}")
	}))
	s.Assert().Equal([]string{"Letter", "Notes"}, tmpl.SheetNames())

	wb, err := reportbook.BindSheets(tmpl,
		reportbook.SheetBinding{Template: "Letter", Name: "Иван", Params: reportbook.NewParams().Bind("name", reportbook.Text("Иван"))},
		reportbook.SheetBinding{Template: "Letter", Name: "Пётр", Params: reportbook.NewParams().Bind("name", reportbook.Text("Пётр"))},
	)
	s.Require().NoError(err)
	s.Require().Len(wb.Sheets, 2)
	s.Assert().Equal("Уважаемый Иван", cellAt(wb, "Иван", "A1").String())
	s.Assert().Equal("Уважаемый Пётр", cellAt(wb, "Пётр", "A1").String())
	s.Assert().Nil(wb.Sheet("Notes"))

	// шаблон не меняется между вызовами
	s.Assert().Len(tmpl.Tags(), 2)

	_, err = reportbook.BindSheets(tmpl, reportbook.SheetBinding{Template: "Missing"})
	s.Require().ErrorIs(err, reportbook.ErrMalformedTemplate)
	_, err = reportbook.BindSheets(tmpl,
		reportbook.SheetBinding{Template: "Notes", Params: reportbook.NewParams().Bind("note", reportbook.Text("a"))},
		reportbook.SheetBinding{Template: "Notes", Params: reportbook.NewParams().Bind("note", reportbook.Text("b"))},
	)
	s.Require().ErrorIs(err, reportbook.ErrMalformedTemplate)
}

// TestParamsFromJSON — разбор параметров из JSON, в том числе в блоке ```json
func (s *ReportSuite) TestParamsFromJSON() {
	data := "```json\n" + `{
        "customer": "ООО Ромашка",
        "date": "2024-03-01",
        "qty": [10, 20],
        "price": [1.50, 0.75],
        "note": "2024-13-99"
    }` + "\n```"
	p, err := reportbook.ParamsFromJSON([]byte(data))
	s.Require().NoError(err)
	s.Assert().Equal([]string{"customer", "date", "qty", "price", "note"}, p.Names())

	customer, err := p.Lookup("customer")
	s.Require().NoError(err)
	s.Assert().False(customer.Seq)
	s.Assert().Equal("ООО Ромашка", customer.Values[0].String())

	date, _ := p.Lookup("date")
	s.Assert().Equal(reportbook.ScalarDate, date.Values[0].Kind())
	s.Assert().True(invoiceDate.Equal(date.Values[0].Time()))

	qty, _ := p.Lookup("qty")
	s.Assert().True(qty.Seq)
	s.Assert().Equal(reportbook.ScalarInt, qty.Values[1].Kind())
	s.Assert().Equal("20", qty.Values[1].String())

	price, _ := p.Lookup("price")
	s.Assert().Equal(reportbook.ScalarDecimal, price.Values[0].Kind())
	s.Assert().Equal("1.50", price.Values[0].String())

	note, _ := p.Lookup("note")
	s.Assert().Equal(reportbook.ScalarText, note.Values[0].Kind())

	_, err = p.Lookup("missing")
	s.Require().ErrorIs(err, reportbook.ErrUnboundParameter)

	_, err = reportbook.ParamsFromJSON([]byte(`[1, 2]`))
	s.Require().ErrorIs(err, reportbook.ErrTypeMismatch)
	_, err = reportbook.ParamsFromJSON([]byte(`{"nested": {"a": 1}}`))
	s.Require().ErrorIs(err, reportbook.ErrTypeMismatch)
}
