package reportbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikitaxru/reportbook/model"
	"github.com/nikitaxru/reportbook/xls"
	"github.com/nikitaxru/reportbook/xlsx"
)

// Format задаёт формат контейнера.
type Format uint8

const (
	// FormatXLS: двоичный BIFF8 в составном файле OLE2.
	FormatXLS Format = iota + 1
	// FormatXLSX: OOXML (zip).
	FormatXLSX
)

var (
	magicZip = []byte("PK\x03\x04")
	magicCFB = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

func (f Format) String() string {
	switch f {
	case FormatXLS:
		return "xls"
	case FormatXLSX:
		return "xlsx"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Ext возвращает расширение файла с точкой.
func (f Format) Ext() string { return "." + f.String() }

// ParseFormat разбирает "xls"/"xlsx" (с точкой или без, в любом регистре).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "xls":
		return FormatXLS, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return 0, fmt.Errorf("%w: формат %q", model.ErrUnsupported, s)
}

// DetectFormat определяет формат по первым байтам.
func DetectFormat(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, magicZip):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, magicCFB):
		return FormatXLS, nil
	}
	return 0, fmt.Errorf("%w: неизвестная сигнатура файла", model.ErrMalformedTemplate)
}

// Encode пишет книгу в w. Вся структурная работа делается в памяти,
// поэтому при ошибке ёмкости или формулы в w ничего не попадает.
func Encode(w io.Writer, wb *model.Workbook, f Format) error {
	if err := model.CheckBound(wb); err != nil {
		return err
	}
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatXLS:
		err = xls.Write(&buf, wb)
	case FormatXLSX:
		err = xlsx.Write(&buf, wb)
	default:
		return fmt.Errorf("%w: формат %v", model.ErrUnsupported, f)
	}
	if err != nil {
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", model.ErrExportIO, err)
	}
	return nil
}

// Export пишет книгу в basePath+расширение. Файл появляется целиком или не
// появляется вовсе: запись идёт во временный файл рядом и переименовывается.
func Export(wb *model.Workbook, f Format, basePath string) (string, error) {
	path := basePath + f.Ext()
	var buf bytes.Buffer
	if err := Encode(&buf, wb, f); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrExportIO, err)
	}
	_, werr := buf.WriteTo(tmp)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %w", model.ErrExportIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %w", model.ErrExportIO, err)
	}
	return path, nil
}
