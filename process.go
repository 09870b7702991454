package reportbook

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nikitaxru/reportbook/model"
)

// Report описывает задание на построение отчёта: шаблон, листы с параметрами и
// форматы, в которые нужно выгрузить результат.
type Report struct {
	TemplatePath string
	// путь результата без расширения
	OutputBase string
	Formats    []Format
	// пустой Sheets означает все листы шаблона с Params
	Sheets []SheetBinding
	Params *Params
}

// Processor прогоняет шаблон через загрузку, заполнение и выгрузку.
type Processor struct {
	Logger *slog.Logger
}

func (p *Processor) logger() *slog.Logger {
	if p == nil || p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

// Process заполняет шаблон параметрами и пишет один файл.
func (p *Processor) Process(templatePath, basePath string, format Format, params *Params) (string, error) {
	paths, err := p.Run(Report{
		TemplatePath: templatePath,
		OutputBase:   basePath,
		Formats:      []Format{format},
		Params:       params,
	})
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// Run выполняет задание и возвращает пути записанных файлов.
func (p *Processor) Run(r Report) ([]string, error) {
	log := p.logger()
	log.Info("начинаем построение отчёта", "template", r.TemplatePath, "output", r.OutputBase, "formats", len(r.Formats))
	if len(r.Formats) == 0 {
		return nil, fmt.Errorf("%w: не задан формат результата", model.ErrUnsupported)
	}
	start := time.Now()

	tmpl, err := LoadTemplate(r.TemplatePath)
	if err != nil {
		log.Error("ошибка загрузки шаблона", "error", err)
		return nil, err
	}
	tags := tmpl.Tags()
	log.Debug("шаблон загружен", "format", tmpl.Format(), "sheets", len(tmpl.SheetNames()), "tags", len(tags))

	var wb *model.Workbook
	if len(r.Sheets) > 0 {
		wb, err = BindSheets(tmpl, r.Sheets...)
	} else {
		wb, err = Bind(tmpl, r.Params)
	}
	if err != nil {
		log.Error("ошибка заполнения шаблона", "error", err)
		return nil, err
	}
	for _, sh := range wb.Sheets {
		log.Debug("лист заполнен", "sheet", sh.Name, "rows", sh.NumRows())
	}

	paths := make([]string, 0, len(r.Formats))
	for _, f := range r.Formats {
		path, err := Export(wb, f, r.OutputBase)
		if err != nil {
			log.Error("ошибка сохранения", "format", f, "error", err)
			return paths, err
		}
		log.Info("файл записан", "format", f, "path", path)
		paths = append(paths, path)
	}
	log.Info("отчёт построен", "duration", time.Since(start))
	return paths, nil
}
