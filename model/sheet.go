package model

// Range задаёт прямоугольник ячеек, 0-based, границы включительно.
type Range struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// Col задаёт ширину и стиль диапазона колонок.
type Col struct {
	First  int
	Last   int
	Width  float64 // в символах, 0 по умолчанию
	Style  int
	Hidden bool
}

// Cell хранит значение и ссылку на стиль.
type Cell struct {
	Value Value
	Style int
}

// Row хранит ячейки строки, позиция в Cells равна номеру колонки.
type Row struct {
	Height float64 // в пунктах, 0 по умолчанию
	Style  int
	Hidden bool
	Cells  []Cell
}

// Sheet хранит строки листа. Позиция в Rows равна номеру строки, nil означает пустую строку.
type Sheet struct {
	Name            string
	Rows            []*Row
	Merges          []Range
	Cols            []Col
	DefaultColWidth float64
}

// Row возвращает строку или nil.
func (s *Sheet) Row(i int) *Row {
	if i < 0 || i >= len(s.Rows) {
		return nil
	}
	return s.Rows[i]
}

// EnsureRow возвращает строку, создавая её при необходимости.
func (s *Sheet) EnsureRow(i int) *Row {
	for len(s.Rows) <= i {
		s.Rows = append(s.Rows, nil)
	}
	if s.Rows[i] == nil {
		s.Rows[i] = &Row{}
	}
	return s.Rows[i]
}

func (s *Sheet) setRow(i int, r *Row) {
	for len(s.Rows) <= i {
		s.Rows = append(s.Rows, nil)
	}
	s.Rows[i] = r
}

// Cell возвращает ячейку или nil.
func (s *Sheet) Cell(row, col int) *Cell {
	r := s.Row(row)
	if r == nil || col < 0 || col >= len(r.Cells) {
		return nil
	}
	return &r.Cells[col]
}

// SetCell записывает ячейку, расширяя строку.
func (s *Sheet) SetCell(row, col int, c Cell) {
	r := s.EnsureRow(row)
	for len(r.Cells) <= col {
		r.Cells = append(r.Cells, Cell{})
	}
	r.Cells[col] = c
}

// NumRows считает строки до последней непустой включительно.
func (s *Sheet) NumRows() int {
	n := len(s.Rows)
	for n > 0 && s.Rows[n-1] == nil {
		n--
	}
	return n
}

// NumCols считает колонки до последней используемой ячейки включительно.
func (s *Sheet) NumCols() int {
	n := 0
	for _, r := range s.Rows {
		if r != nil && len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	for _, m := range s.Merges {
		if m.LastCol+1 > n {
			n = m.LastCol + 1
		}
	}
	return n
}

func (r *Row) clone() *Row {
	cp := *r
	cp.Cells = make([]Cell, len(r.Cells))
	copy(cp.Cells, r.Cells)
	for i := range cp.Cells {
		if segs := cp.Cells[i].Value.Segments; segs != nil {
			cp.Cells[i].Value.Segments = append([]Segment(nil), segs...)
		}
	}
	return &cp
}

// insertRows вставляет n пустых строк после строки at.
func (s *Sheet) insertRows(at, n int) {
	if at+1 < len(s.Rows) {
		tail := append([]*Row(nil), s.Rows[at+1:]...)
		s.Rows = append(s.Rows[:at+1], make([]*Row, n)...)
		s.Rows = append(s.Rows, tail...)
	}
	for i := range s.Merges {
		m := &s.Merges[i]
		switch {
		case m.FirstRow > at:
			m.FirstRow += n
			m.LastRow += n
		case m.LastRow > at:
			m.LastRow += n
		}
	}
}

// removeRow удаляет строку at, сдвигая всё ниже на одну вверх.
func (s *Sheet) removeRow(at int) {
	if at < len(s.Rows) {
		s.Rows = append(s.Rows[:at], s.Rows[at+1:]...)
	}
	merges := s.Merges[:0]
	for _, m := range s.Merges {
		switch {
		case m.FirstRow == at && m.LastRow == at:
			continue
		case m.FirstRow > at:
			m.FirstRow--
			m.LastRow--
		case m.LastRow >= at:
			m.LastRow--
		}
		if m.FirstRow == m.LastRow && m.FirstCol == m.LastCol {
			continue
		}
		merges = append(merges, m)
	}
	s.Merges = merges
}
