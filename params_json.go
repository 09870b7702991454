package reportbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nikitaxru/reportbook/model"
)

// sanitizeJSONBlock извлекает JSON, обёрнутый в тройные кавычки ``` ... ```.
// Если таких кавычек нет, возвращает исходную строку.
var fenceRx = regexp.MustCompile("(?s)```[a-zA-Z]*\\n(.*?)```")

func sanitizeJSONBlock(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	m := fenceRx.FindStringSubmatch(s)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}

// ParamsFromJSON строит таблицу параметров из JSON-объекта:
// строки становятся текстом (YYYY-MM-DD датой), целые Int, дробные Decimal
// с масштабом записи, массивы последовательностями.
func ParamsFromJSON(data []byte) (*Params, error) {
	dec := json.NewDecoder(strings.NewReader(sanitizeJSONBlock(string(bytes.TrimSpace(data)))))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("параметры: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: параметры должны быть JSON-объектом", model.ErrTypeMismatch)
	}
	p := NewParams()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("параметры: %w", err)
		}
		name := tok.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("параметр %s: %w", name, err)
		}
		if arr, ok := raw.([]any); ok {
			seq := make([]Scalar, len(arr))
			for i, it := range arr {
				sc, err := jsonScalar(it)
				if err != nil {
					return nil, fmt.Errorf("параметр %s[%d]: %w", name, i, err)
				}
				seq[i] = sc
			}
			p.BindSeq(name, seq...)
			continue
		}
		sc, err := jsonScalar(raw)
		if err != nil {
			return nil, fmt.Errorf("параметр %s: %w", name, err)
		}
		p.Bind(name, sc)
	}
	return p, nil
}

func jsonScalar(v any) (Scalar, error) {
	switch vv := v.(type) {
	case string:
		if len(vv) == len("2006-01-02") {
			if t, err := time.Parse("2006-01-02", vv); err == nil {
				return Date(t), nil
			}
		}
		return Text(vv), nil
	case json.Number:
		return jsonNumberScalar(vv)
	}
	return Scalar{}, fmt.Errorf("%w: %T не скаляр", model.ErrTypeMismatch, v)
}
