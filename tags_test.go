package reportbook

import (
	"errors"
	"testing"

	"github.com/nikitaxru/reportbook/model"
)

func TestParseCellText_Segments(t *testing.T) {
	segs, err := parseCellText("Dear ${customer} sama, ${ date }")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 4 {
		t.Fatalf("segments => %d, want 4: %+v", len(segs), segs)
	}
	if segs[0].Text != "Dear " || segs[2].Text != " sama, " {
		t.Fatalf("literals => %q %q", segs[0].Text, segs[2].Text)
	}
	if segs[1].Tag == nil || segs[1].Tag.Name != "customer" || segs[1].Tag.Kind != model.TagSingle {
		t.Fatalf("tag 1 => %+v", segs[1].Tag)
	}
	if segs[3].Tag == nil || segs[3].Tag.Name != "date" || segs[3].Tag.Raw != "${ date }" {
		t.Fatalf("tag 2 => %+v", segs[3].Tag)
	}

	if segs, err := parseCellText("no tags here, $5 {x}"); err != nil || segs != nil {
		t.Fatalf("plain text => %+v, %v", segs, err)
	}
}

func TestParseCellText_RowRepeat(t *testing.T) {
	segs, err := parseCellText("$R[omitDuplicate=true, minRepeatNum=5, repeatNum=10]{item}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(segs) != 1 || segs[0].Tag == nil {
		t.Fatalf("segments => %+v", segs)
	}
	tag := segs[0].Tag
	if tag.Kind != model.TagRowRepeat || !tag.OmitDuplicate || tag.MinRepeat != 5 || tag.MaxRepeat != 10 {
		t.Fatalf("tag => %+v", tag)
	}

	// пустые скобки у одиночного тега допустимы
	if segs, err := parseCellText("$[]{x}"); err != nil || segs[0].Tag.Kind != model.TagSingle {
		t.Fatalf("$[]{x} => %+v, %v", segs, err)
	}
}

func TestParseCellText_Errors(t *testing.T) {
	cases := map[string]error{
		"$C[]{x}":                    model.ErrUnknownTagKind,
		"$I[]{x}":                    model.ErrUnknownTagKind,
		"${}":                        model.ErrMalformedTemplate,
		"$[a=1]{x}":                  model.ErrMalformedTemplate,
		"$R[]{x} tail":               model.ErrMalformedTemplate,
		"$R[repeatNum=-1]{x}":        model.ErrMalformedTemplate,
		"$R[repeatNum=\"ten\"]{x}":   model.ErrMalformedTemplate,
		"$R[minRepeatNum]{x}":        model.ErrMalformedTemplate,
		"$R[omitDuplicate=yes()]{x}": model.ErrMalformedTemplate,
	}
	for text, want := range cases {
		_, err := parseCellText(text)
		if !errors.Is(err, want) {
			t.Fatalf("%s => %v, want %v", text, err, want)
		}
		var te *tagError
		if !errors.As(err, &te) || te.raw == "" {
			t.Fatalf("%s => no tag text in %v", text, err)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	got := splitArgs(`a=1, b="x,y", c=max(1, 2) ,`)
	want := []string{"a=1", `b="x,y"`, "c=max(1, 2)"}
	if len(got) != len(want) {
		t.Fatalf("splitArgs => %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitArgs[%d] => %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseTags_ReadOnly(t *testing.T) {
	wb := model.NewWorkbook()
	sh := wb.AddSheet("S")
	sh.SetCell(0, 1, model.Cell{Value: model.TextValue("${b}")})
	sh.SetCell(1, 0, model.Cell{Value: model.TextValue("$R[]{a}")})
	sh.SetCell(1, 1, model.Cell{Value: model.NumberValue(1)})

	tt, err := ParseTags(wb)
	if err != nil {
		t.Fatalf("ParseTags: %v", err)
	}
	if len(tt) != 2 || tt[0].Cell() != "S!B1" || tt[1].Cell() != "S!A2" {
		t.Fatalf("tags => %+v", tt)
	}
	if sh.Cell(0, 1).Value.Kind != model.KindText {
		t.Fatalf("ParseTags changed the cell: %+v", sh.Cell(0, 1).Value)
	}

	if err := annotateTags(wb); err != nil {
		t.Fatalf("annotateTags: %v", err)
	}
	if v := sh.Cell(1, 0).Value; v.Kind != model.KindTag || !isRowRepeat(v) {
		t.Fatalf("annotated => %+v", v)
	}
	// повторный разбор аннотированной книги даёт те же теги
	again, err := ParseTags(wb)
	if err != nil || len(again) != 2 || again[1].Tag != tt[1].Tag {
		t.Fatalf("reparse => %+v, %v", again, err)
	}
}
