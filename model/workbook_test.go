package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourRows — лист S: заголовок, строка данных с формулой, пустая строка, итог
func fourRows() (*Workbook, *Sheet) {
	wb := NewWorkbook()
	sh := wb.AddSheet("S")
	sh.SetCell(0, 0, Cell{Value: TextValue("head")})
	sh.SetCell(1, 0, Cell{Value: NumberValue(1)})
	sh.SetCell(1, 1, Cell{Value: FormulaValue("A2*2")})
	sh.EnsureRow(1).Height = 20
	sh.SetCell(3, 1, Cell{Value: FormulaValue("SUM(B2:B2)")})
	sh.Merges = []Range{
		{FirstRow: 1, LastRow: 1, FirstCol: 2, LastCol: 3},
		{FirstRow: 0, LastRow: 2, FirstCol: 5, LastCol: 5},
		{FirstRow: 3, LastRow: 3, FirstCol: 0, LastCol: 1},
	}
	return wb, sh
}

func TestDuplicateRow(t *testing.T) {
	wb, sh := fourRows()
	other := wb.AddSheet("T")
	other.SetCell(0, 0, Cell{Value: FormulaValue("S!B4+S!A2")})

	wb.DuplicateRow(sh, 1, 2)

	require.Equal(t, 6, sh.NumRows())
	for i := 1; i <= 3; i++ {
		assert.Equal(t, NumberValue(1), sh.Cell(i, 0).Value)
		assert.Equal(t, 20.0, sh.Row(i).Height)
	}
	assert.Equal(t, "A2*2", sh.Cell(1, 1).Value.Formula)
	assert.Equal(t, "A3*2", sh.Cell(2, 1).Value.Formula)
	assert.Equal(t, "A4*2", sh.Cell(3, 1).Value.Formula)
	assert.Equal(t, "SUM(B2:B4)", sh.Cell(5, 1).Value.Formula)
	assert.Equal(t, "S!B6+S!A2", other.Cell(0, 0).Value.Formula)

	assert.ElementsMatch(t, []Range{
		{FirstRow: 1, LastRow: 1, FirstCol: 2, LastCol: 3},
		{FirstRow: 2, LastRow: 2, FirstCol: 2, LastCol: 3},
		{FirstRow: 3, LastRow: 3, FirstCol: 2, LastCol: 3},
		{FirstRow: 0, LastRow: 4, FirstCol: 5, LastCol: 5},
		{FirstRow: 5, LastRow: 5, FirstCol: 0, LastCol: 1},
	}, sh.Merges)

	// копии независимы от исходной строки
	sh.Cell(2, 0).Value = TextValue("changed")
	assert.Equal(t, NumberValue(1), sh.Cell(1, 0).Value)
}

func TestDuplicateRow_RunningTotal(t *testing.T) {
	wb := NewWorkbook()
	sh := wb.AddSheet("S")
	sh.SetCell(1, 1, Cell{Value: FormulaValue("SUM($A$2:A2)")})
	sh.SetCell(1, 2, Cell{Value: FormulaValue("SUM(A2:A2)+A3")})
	sh.SetCell(2, 0, Cell{Value: FormulaValue("SUM(A2:A2)")})

	wb.DuplicateRow(sh, 1, 2)

	assert.Equal(t, "SUM($A$2:A2)", sh.Cell(1, 1).Value.Formula)
	assert.Equal(t, "SUM($A$2:A3)", sh.Cell(2, 1).Value.Formula)
	assert.Equal(t, "SUM($A$2:A4)", sh.Cell(3, 1).Value.Formula)
	// ссылка ниже блока сдвигается, диапазон своей строки нет
	assert.Equal(t, "SUM(A2:A2)+A5", sh.Cell(1, 2).Value.Formula)
	assert.Equal(t, "SUM(A3:A3)+A6", sh.Cell(2, 2).Value.Formula)
	assert.Equal(t, "SUM(A2:A4)", sh.Cell(4, 0).Value.Formula)

	// обычная вставка по-прежнему расширяет диапазон
	wb.InsertRows(sh, 1, 1)
	assert.Equal(t, "SUM($A$2:A3)", sh.Cell(1, 1).Value.Formula)
}

func TestRemoveRow(t *testing.T) {
	wb, sh := fourRows()
	wb.RemoveRow(sh, 1)

	require.Equal(t, 3, sh.NumRows())
	assert.Equal(t, "head", sh.Cell(0, 0).Value.Str)
	assert.Nil(t, sh.Row(1))
	assert.Equal(t, "SUM(#REF!)", sh.Cell(2, 1).Value.Formula)
	assert.Equal(t, []Range{
		{FirstRow: 0, LastRow: 1, FirstCol: 5, LastCol: 5},
		{FirstRow: 2, LastRow: 2, FirstCol: 0, LastCol: 1},
	}, sh.Merges)
}

func TestClone(t *testing.T) {
	wb, sh := fourRows()
	cp, err := wb.Clone()
	require.NoError(t, err)
	cp.Sheets[0].Cell(0, 0).Value = TextValue("other")
	cp.Sheets[0].Merges[0].LastCol = 9
	assert.Equal(t, "head", sh.Cell(0, 0).Value.Str)
	assert.Equal(t, 3, sh.Merges[0].LastCol)
}

func TestCheckBound(t *testing.T) {
	wb, sh := fourRows()
	require.NoError(t, CheckBound(wb))

	sh.SetCell(2, 2, Cell{Value: Value{Kind: KindTag, Segments: []Segment{{Tag: &Tag{Kind: TagSingle, Name: "x", Raw: "${x}"}}}}})
	err := CheckBound(wb)
	require.ErrorIs(t, err, ErrUnresolvedTag)
	var ce *CellError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "S", ce.Sheet)
	assert.Equal(t, 2, ce.Row)
	assert.Equal(t, 2, ce.Col)
}

func TestIntern(t *testing.T) {
	wb := NewWorkbook()
	assert.Equal(t, 0, wb.Intern(Style{}))
	bold := Style{Font: Font{Bold: true}}
	i := wb.Intern(bold)
	assert.Equal(t, 1, i)
	assert.Equal(t, i, wb.Intern(bold))
	assert.True(t, wb.Style(i).Font.Bold)
	assert.Equal(t, DefaultStyle, wb.Style(99))
}

func TestSharedStrings(t *testing.T) {
	wb := NewWorkbook()
	a := wb.AddSheet("A")
	a.SetCell(0, 1, Cell{Value: TextValue("x")})
	a.SetCell(1, 0, Cell{Value: TextValue("y")})
	a.SetCell(1, 1, Cell{Value: NumberValue(2)})
	wb.AddSheet("B").SetCell(0, 0, Cell{Value: TextValue("x")})

	st := SharedStrings(wb)
	assert.Equal(t, []string{"x", "y"}, st.Strings)
	assert.Equal(t, 3, st.Total)
	i, ok := st.Index("y")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}
