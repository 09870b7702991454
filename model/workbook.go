// Package model описывает форматонезависимую модель документа: книга, листы, строки, ячейки
// и пул стилей. Строки и объединения адресуются индексами, поэтому вставка и
// удаление строк сводятся к арифметике над индексами.
package model

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// Workbook хранит листы и пул стилей. Styles[0] является стилем по умолчанию.
type Workbook struct {
	Sheets []*Sheet
	Styles []Style
}

// NewWorkbook создаёт пустую книгу с одним стилем по умолчанию.
func NewWorkbook() *Workbook {
	return &Workbook{Styles: []Style{DefaultStyle}}
}

// AddSheet добавляет лист в конец книги.
func (wb *Workbook) AddSheet(name string) *Sheet {
	sh := &Sheet{Name: name}
	wb.Sheets = append(wb.Sheets, sh)
	return sh
}

// Sheet ищет лист по имени.
func (wb *Workbook) Sheet(name string) *Sheet {
	for _, sh := range wb.Sheets {
		if sh.Name == name {
			return sh
		}
	}
	return nil
}

// Clone делает полную независимую копию книги.
func (wb *Workbook) Clone() (*Workbook, error) {
	var dst *Workbook
	if err := deepcopy.Copy(&dst, wb); err != nil {
		return nil, fmt.Errorf("копирование книги: %w", err)
	}
	return dst, nil
}

// InsertRows вставляет n пустых строк ниже строки at листа sh и переносит
// объединения и ссылки формул во всех листах книги.
func (wb *Workbook) InsertRows(sh *Sheet, at, n int) {
	wb.insertRows(sh, at, n, -1)
}

// insertRows вставляет строки. Формулы строки keep листа sh сдвигаются без
// расширения диапазонов, заканчивающихся на at.
func (wb *Workbook) insertRows(sh *Sheet, at, n, keep int) {
	if n <= 0 {
		return
	}
	sh.insertRows(at, n)
	wb.eachFormula(func(host *Sheet, row int, v *Value) {
		widen := host != sh || row != keep
		v.Formula = shiftInsert(v.Formula, host.Name, sh.Name, at, n, widen)
	})
}

// RemoveRow удаляет строку at листа sh.
func (wb *Workbook) RemoveRow(sh *Sheet, at int) {
	sh.removeRow(at)
	wb.eachFormula(func(host *Sheet, _ int, v *Value) {
		v.Formula = ShiftRemove(v.Formula, host.Name, sh.Name, at)
	})
}

// DuplicateRow размножает строку src на n копий сразу под ней. Копии наследуют
// высоту, стиль строки, ячейки и однострочные объединения; относительные
// ссылки формул в копии i смещаются на i. Диапазоны самой строки src,
// заканчивающиеся на ней, не расширяются: SUM($A$2:A2) остаётся нарастающим итогом.
func (wb *Workbook) DuplicateRow(sh *Sheet, src, n int) {
	if n <= 0 {
		return
	}
	wb.insertRows(sh, src, n, src)
	orig := sh.Row(src)
	var rowMerges []Range
	for _, m := range sh.Merges {
		if m.FirstRow == src && m.LastRow == src {
			rowMerges = append(rowMerges, m)
		}
	}
	for i := 1; i <= n; i++ {
		if orig != nil {
			cp := orig.clone()
			for c := range cp.Cells {
				if cp.Cells[c].Value.Kind == KindFormula {
					cp.Cells[c].Value.Formula = OffsetFormula(cp.Cells[c].Value.Formula, i)
				}
			}
			sh.setRow(src+i, cp)
		}
		for _, m := range rowMerges {
			m.FirstRow, m.LastRow = src+i, src+i
			sh.Merges = append(sh.Merges, m)
		}
	}
}

func (wb *Workbook) eachFormula(fn func(host *Sheet, row int, v *Value)) {
	for _, s := range wb.Sheets {
		for ri, r := range s.Rows {
			if r == nil {
				continue
			}
			for c := range r.Cells {
				if r.Cells[c].Value.Kind == KindFormula {
					fn(s, ri, &r.Cells[c].Value)
				}
			}
		}
	}
}

// CheckBound проверяет, что в книге не осталось тегов.
func CheckBound(wb *Workbook) error {
	for _, s := range wb.Sheets {
		for ri, r := range s.Rows {
			if r == nil {
				continue
			}
			for ci, c := range r.Cells {
				if c.Value.Kind == KindTag {
					return NewCellError(s.Name, ri, ci, c.Value.String(), ErrUnresolvedTag)
				}
			}
		}
	}
	return nil
}
