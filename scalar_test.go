package reportbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitaxru/reportbook/model"
)

type grade int

func (g grade) String() string { return "grade" }

type label string

type point struct{}

func (point) String() string { return "point" }

func TestScalarOf(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   any
		kind ScalarKind
		want string
	}{
		{"text", ScalarText, "text"},
		{42, ScalarInt, "42"},
		{uint16(7), ScalarInt, "7"},
		{2.5, ScalarDecimal, "2.5"},
		{3.0, ScalarInt, "3"},
		{time.Duration(90), ScalarInt, "90"},
		{grade(3), ScalarInt, "3"},
		{label("x"), ScalarText, "x"},
		{point{}, ScalarText, "point"},
	}
	for _, tc := range cases {
		got, err := ScalarOf(tc.in)
		require.NoError(t, err, "%T", tc.in)
		assert.Equal(t, tc.kind, got.Kind(), "%T", tc.in)
		assert.Equal(t, tc.want, got.String(), "%T", tc.in)
	}

	d, err := ScalarOf(at)
	require.NoError(t, err)
	assert.Equal(t, ScalarDate, d.Kind())
	assert.True(t, at.Equal(d.Time()))

	for _, bad := range []any{nil, struct{}{}, uint64(1 << 63), []int{1}} {
		_, err := ScalarOf(bad)
		assert.ErrorIs(t, err, model.ErrTypeMismatch, "%T", bad)
	}
}
