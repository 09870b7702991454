package reportbook

import (
	"fmt"

	"github.com/nikitaxru/reportbook/model"
)

// Param хранит значение параметра: скаляр или последовательность скаляров.
type Param struct {
	Seq    bool
	Values []Scalar
}

// Scalar возвращает скалярное значение; ok=false для последовательности.
func (p Param) Scalar() (Scalar, bool) {
	if p.Seq || len(p.Values) != 1 {
		return Scalar{}, false
	}
	return p.Values[0], true
}

// Params хранит упорядоченную таблицу параметров. Повторная привязка имени
// заменяет значение, сохраняя исходную позицию.
type Params struct {
	names  []string
	values map[string]Param
}

// NewParams создаёт пустую таблицу.
func NewParams() *Params {
	return &Params{values: make(map[string]Param)}
}

func (p *Params) set(name string, v Param) *Params {
	if p.values == nil {
		p.values = make(map[string]Param)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = v
	return p
}

// Bind привязывает скаляр.
func (p *Params) Bind(name string, v Scalar) *Params {
	return p.set(name, Param{Values: []Scalar{v}})
}

// BindSeq привязывает последовательность (возможно пустую).
func (p *Params) BindSeq(name string, vs ...Scalar) *Params {
	return p.set(name, Param{Seq: true, Values: append([]Scalar(nil), vs...)})
}

// BindAny привязывает значение Go: срезы становятся последовательностями.
func (p *Params) BindAny(name string, v any) error {
	switch vv := v.(type) {
	case []Scalar:
		p.BindSeq(name, vv...)
		return nil
	case []string:
		seq := make([]Scalar, len(vv))
		for i, s := range vv {
			seq[i] = Text(s)
		}
		p.BindSeq(name, seq...)
		return nil
	case []any:
		seq := make([]Scalar, len(vv))
		for i, it := range vv {
			sc, err := ScalarOf(it)
			if err != nil {
				return fmt.Errorf("параметр %s[%d]: %w", name, i, err)
			}
			seq[i] = sc
		}
		p.BindSeq(name, seq...)
		return nil
	}
	sc, err := ScalarOf(v)
	if err != nil {
		return fmt.Errorf("параметр %s: %w", name, err)
	}
	p.Bind(name, sc)
	return nil
}

// Lookup возвращает значение параметра или ErrUnboundParameter.
func (p *Params) Lookup(name string) (Param, error) {
	if p != nil {
		if v, ok := p.values[name]; ok {
			return v, nil
		}
	}
	return Param{}, fmt.Errorf("%w: %s", model.ErrUnboundParameter, name)
}

// Names возвращает имена в порядке первой привязки.
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Len возвращает число привязанных имён.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}
