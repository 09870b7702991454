package reportbook

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/nikitaxru/reportbook/model"
	"github.com/nikitaxru/reportbook/xls"
	"github.com/nikitaxru/reportbook/xlsx"
)

// Движок отчётов по шаблонам Excel с тегами ExCella:
// - ${name}: одиночное значение
// - $R[]{name}: повтор строки по последовательности
// - $R[omitDuplicate=true, minRepeatNum=3, repeatNum=10]{name}
// Шаблон читается из xls или xlsx, результат пишется в любой из форматов.

// Template хранит загруженный шаблон. После загрузки не изменяется, поэтому
// Bind можно вызывать конкурентно.
type Template struct {
	format Format
	book   *model.Workbook
	tags   TagTable
}

// LoadTemplate читает шаблон из файла.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := parseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("шаблон %s: %w", path, err)
	}
	return t, nil
}

// ParseTemplate читает шаблон из потока; формат определяется по сигнатуре.
func ParseTemplate(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseTemplate(data)
}

func parseTemplate(data []byte) (*Template, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}
	var wb *model.Workbook
	switch format {
	case FormatXLS:
		wb, err = xls.Read(data)
	case FormatXLSX:
		wb, err = xlsx.Read(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	return newTemplate(format, wb)
}

// NewTemplate строит шаблон из готовой модели (например, собранной в коде).
func NewTemplate(format Format, wb *model.Workbook) (*Template, error) {
	cp, err := wb.Clone()
	if err != nil {
		return nil, err
	}
	return newTemplate(format, cp)
}

func newTemplate(format Format, wb *model.Workbook) (*Template, error) {
	tags, err := ParseTags(wb)
	if err != nil {
		return nil, err
	}
	if err := annotateTags(wb); err != nil {
		return nil, err
	}
	return &Template{format: format, book: wb, tags: tags}, nil
}

// Format возвращает формат, из которого прочитан шаблон.
func (t *Template) Format() Format { return t.format }

// Tags возвращает теги шаблона в порядке документа.
func (t *Template) Tags() TagTable { return append(TagTable(nil), t.tags...) }

// SheetNames возвращает имена листов шаблона.
func (t *Template) SheetNames() []string {
	names := make([]string, len(t.book.Sheets))
	for i, sh := range t.book.Sheets {
		names[i] = sh.Name
	}
	return names
}

// Workbook возвращает копию модели шаблона с тегами в ячейках.
func (t *Template) Workbook() (*model.Workbook, error) { return t.book.Clone() }
