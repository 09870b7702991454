package reportbook

import "github.com/nikitaxru/reportbook/model"

// Ошибки движка; сравнивайте через errors.Is, координаты через errors.As(*CellError).
var (
	ErrUnknownTagKind         = model.ErrUnknownTagKind
	ErrUnboundParameter       = model.ErrUnboundParameter
	ErrTypeMismatch           = model.ErrTypeMismatch
	ErrRowGroupLengthMismatch = model.ErrRowGroupLengthMismatch
	ErrUnresolvedTag          = model.ErrUnresolvedTag
	ErrCapacityExceeded       = model.ErrCapacityExceeded
	ErrMalformedTemplate      = model.ErrMalformedTemplate
	ErrExportIO               = model.ErrExportIO
	ErrUnsupported            = model.ErrUnsupported
)

// CellError несёт координаты ячейки.
type CellError = model.CellError
