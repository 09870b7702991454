// Command reportbook заполняет шаблон Excel параметрами из JSON и пишет
// результат в xls и/или xlsx.
//
//	reportbook -template invoice.xlsx -params data.json -format xls,xlsx -o out/invoice
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/google/uuid"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/nikitaxru/reportbook"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			// справку уже напечатал ffcli
			os.Exit(2)
		}
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

// Main разбирает аргументы и строит отчёт. Без шаблона печатает справку и
// возвращает flag.ErrHelp.
func Main(args []string) error {
	fs := flag.NewFlagSet("reportbook", flag.ContinueOnError)
	fs.Var(&verbose, "v", "подробность журнала")
	flagTemplate := fs.String("template", "", "файл шаблона (.xls или .xlsx)")
	flagParams := fs.String("params", "", "JSON-файл с параметрами (- для stdin)")
	flagFormat := fs.String("format", "xlsx", "форматы результата через запятую: xls,xlsx")
	flagOut := fs.String("o", "", "путь результата без расширения (по умолчанию временный каталог)")

	app := ffcli.Command{Name: "reportbook", FlagSet: fs,
		ShortUsage: "reportbook -template <file> [-params <json>] [-format xls,xlsx] [-o base]",
		Exec: func(ctx context.Context, args []string) error {
			templatePath := *flagTemplate
			if templatePath == "" && len(args) != 0 {
				templatePath = args[0]
			}
			if templatePath == "" {
				return flag.ErrHelp
			}
			formats, err := parseFormats(*flagFormat)
			if err != nil {
				return err
			}
			params, err := readParams(*flagParams)
			if err != nil {
				return err
			}
			out := *flagOut
			if out == "" {
				out = filepath.Join(os.TempDir(), uuid.NewString())
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			p := reportbook.Processor{Logger: logger}
			paths, err := p.Run(reportbook.Report{
				TemplatePath: templatePath,
				OutputBase:   out,
				Formats:      formats,
				Params:       params,
			})
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Println(path)
			}
			return nil
		},
	}

	if err := app.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

func parseFormats(s string) ([]reportbook.Format, error) {
	var formats []reportbook.Format
	seen := map[reportbook.Format]bool{}
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		f, err := reportbook.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

func readParams(path string) (*reportbook.Params, error) {
	var data []byte
	var err error
	switch path {
	case "":
		return reportbook.NewParams(), nil
	case "-":
		data, err = io.ReadAll(os.Stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("параметры %s: %w", path, err)
	}
	params, err := reportbook.ParamsFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("параметры %s: %w", path, err)
	}
	return params, nil
}
