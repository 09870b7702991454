package model

import (
	"errors"
	"fmt"
)

// Таксономия ошибок движка. Все ошибки биндинга и экспорта оборачивают одну из них.
var (
	ErrUnknownTagKind         = errors.New("неизвестный вид тега")
	ErrUnboundParameter       = errors.New("параметр не задан")
	ErrTypeMismatch           = errors.New("несовместимый тип значения")
	ErrRowGroupLengthMismatch = errors.New("разная длина последовательностей в группе строк")
	ErrUnresolvedTag          = errors.New("неразрешённый тег")
	ErrCapacityExceeded       = errors.New("превышена ёмкость формата")
	ErrMalformedTemplate      = errors.New("повреждённый шаблон")
	ErrExportIO               = errors.New("ошибка записи результата")
	ErrUnsupported            = errors.New("не поддерживается форматом")
)

// CellError привязывает ошибку к ячейке листа (0-based row/col).
type CellError struct {
	Sheet string
	Row   int
	Col   int
	Tag   string
	Err   error
}

func (e *CellError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s!%s: тег %s: %v", e.Sheet, CellName(e.Col, e.Row), e.Tag, e.Err)
	}
	return fmt.Sprintf("%s!%s: %v", e.Sheet, CellName(e.Col, e.Row), e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// NewCellError создаёт ошибку с координатами ячейки.
func NewCellError(sheet string, row, col int, tag string, err error) *CellError {
	return &CellError{Sheet: sheet, Row: row, Col: col, Tag: tag, Err: err}
}
