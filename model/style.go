package model

// Border задаёт стиль линии в терминах OOXML: 0 нет, 1 thin, 2 medium, 3 dashed,
// 4 dotted, 5 thick, 6 double, 7 hair.
type Border uint8

// Font описывает шрифт ячейки. Цвет в виде RRGGBB, пустая строка означает авто.
type Font struct {
	Name   string
	Size   float64
	Bold   bool
	Italic bool
	Strike bool
	Under  bool
	Color  string
}

// Style описывает формат ячейки. Сравним по значению, поэтому годится ключом пула.
type Style struct {
	NumFmt string
	Font   Font
	// Horizontal: "", left, center, right, fill, justify
	Horizontal string
	// Vertical: "", top, center, bottom
	Vertical string
	Wrap     bool
	Fill     string // RRGGBB сплошной заливки
	Left     Border
	Right    Border
	Top      Border
	Bottom   Border
}

// DefaultFont используется стилем по умолчанию.
var DefaultFont = Font{Name: "Calibri", Size: 11}

// DefaultStyle лежит в пуле под индексом 0.
var DefaultStyle = Style{NumFmt: "General", Font: DefaultFont}

// Intern возвращает индекс стиля в пуле книги, добавляя его при необходимости.
// Индексы стабильны и идут в порядке первого появления.
func (wb *Workbook) Intern(st Style) int {
	if st.NumFmt == "" {
		st.NumFmt = "General"
	}
	if st.Font.Name == "" {
		st.Font.Name = DefaultFont.Name
	}
	if st.Font.Size == 0 {
		st.Font.Size = DefaultFont.Size
	}
	for i, s := range wb.Styles {
		if s == st {
			return i
		}
	}
	wb.Styles = append(wb.Styles, st)
	return len(wb.Styles) - 1
}

// Style возвращает стиль по индексу; неизвестный индекс даёт стиль по умолчанию.
func (wb *Workbook) Style(idx int) Style {
	if idx < 0 || idx >= len(wb.Styles) {
		return DefaultStyle
	}
	return wb.Styles[idx]
}
