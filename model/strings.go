package model

// StringTable хранит пул общих строк. Индексы идут в порядке первого появления
// (лист, строка, колонка), поэтому одинаковые книги дают одинаковые таблицы.
type StringTable struct {
	Strings []string
	// число текстовых ячеек, ссылающихся на пул
	Total int
	index map[string]int
}

// SharedStrings строит пул общих строк книги.
func SharedStrings(wb *Workbook) *StringTable {
	st := &StringTable{index: make(map[string]int)}
	for _, s := range wb.Sheets {
		for _, r := range s.Rows {
			if r == nil {
				continue
			}
			for _, c := range r.Cells {
				if c.Value.Kind == KindText {
					st.Add(c.Value.Str)
				}
			}
		}
	}
	return st
}

// Add регистрирует вхождение строки и возвращает её индекс.
func (st *StringTable) Add(s string) int {
	st.Total++
	if i, ok := st.index[s]; ok {
		return i
	}
	i := len(st.Strings)
	st.Strings = append(st.Strings, s)
	st.index[s] = i
	return i
}

// Index ищет уже зарегистрированную строку.
func (st *StringTable) Index(s string) (int, bool) {
	i, ok := st.index[s]
	return i, ok
}
