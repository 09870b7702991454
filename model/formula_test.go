package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRef(t *testing.T) {
	rt, ok := ParseRef("'My Sheet'!$B$2:C10")
	assert.True(t, ok)
	assert.Equal(t, "My Sheet", rt.Sheet)
	assert.True(t, rt.Area)
	assert.Equal(t, Ref{ColAbs: true, Col: 1, RowAbs: true, Row: 1}, rt.First)
	assert.Equal(t, Ref{Col: 2, Row: 9}, rt.Last)
	assert.Equal(t, "'My Sheet'!$B$2:C10", rt.String())

	_, ok = ParseRef("TaxRate")
	assert.False(t, ok, "имя не ссылка")
	rt, ok = ParseRef("A:A")
	assert.True(t, ok)
	assert.Equal(t, -1, rt.First.Row)
}

func TestShiftInsert(t *testing.T) {
	cases := []struct {
		formula, host string
		want          string
	}{
		{"SUM(D5:D5)", "S", "SUM(D5:D7)"},
		{"D7*2", "S", "D9*2"},
		{"$D$5+D3", "S", "$D$5+D3"},
		{"SUM(D2:D9)", "S", "SUM(D2:D11)"},
		{"Other!D7", "S", "Other!D7"},
		{"S!D7", "X", "S!D9"},
		{"D7", "X", "D7"},
		{"SUM(A:A)", "S", "SUM(A:A)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ShiftInsert(tc.formula, tc.host, "S", 4, 2), tc.formula)
	}
}

func TestShiftRemove(t *testing.T) {
	assert.Equal(t, "SUM(D5:D6)", ShiftRemove("SUM(D5:D7)", "S", "S", 4))
	assert.Equal(t, "SUM(D3:D6)", ShiftRemove("SUM(D3:D7)", "S", "S", 4))
	assert.Equal(t, "#REF!+1", ShiftRemove("D5+1", "S", "S", 4))
	assert.Equal(t, "D7", ShiftRemove("D8", "S", "S", 4))
	assert.Equal(t, "D3", ShiftRemove("D3", "S", "S", 4))
}

func TestOffsetFormula(t *testing.T) {
	assert.Equal(t, "B7*C7", OffsetFormula("B5*C5", 2))
	assert.Equal(t, "$B$5*C6", OffsetFormula("$B$5*C5", 1))
	assert.Equal(t, "IF(A2>0,A2,\"none\")", OffsetFormula("IF(A1>0,A1,\"none\")", 1))
	assert.Equal(t, "B5", OffsetFormula("B5", 0))
}
