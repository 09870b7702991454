package model

import (
	"strings"

	"github.com/xuri/nfp"
)

// FormatClass задаёт вид значения, который ячейка объявляет своим числовым форматом.
type FormatClass uint8

const (
	FormatGeneral FormatClass = iota
	FormatText
	FormatNumber
	FormatDate
)

// BuiltinFormats содержит встроенные числовые форматы, общие для xls и xlsx.
var BuiltinFormats = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// BuiltinFormatID ищет код среди встроенных форматов.
func BuiltinFormatID(code string) (int, bool) {
	for id, c := range BuiltinFormats {
		if c == code {
			return id, true
		}
	}
	return 0, false
}

// FormatCode возвращает код формата по идентификатору, для неизвестных встроенных General.
func FormatCode(id int, custom map[int]string) string {
	if c, ok := custom[id]; ok {
		return c
	}
	if c, ok := BuiltinFormats[id]; ok {
		return c
	}
	return "General"
}

// DateFormat размечает даты в ячейках без собственного формата даты.
const DateFormat = "yyyy-mm-dd"

// ClassifyFormat определяет, какой вид значения ожидает ячейка с данным форматом.
// Смотрится только первая секция формата.
func ClassifyFormat(code string) FormatClass {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "General") {
		return FormatGeneral
	}
	if code == "@" {
		return FormatText
	}
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(code)
	if len(sections) == 0 {
		return FormatGeneral
	}
	class := FormatGeneral
	for _, tok := range sections[0].Items {
		switch tok.TType {
		case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
			return FormatDate
		case nfp.TokenTypeTextPlaceHolder:
			if class == FormatGeneral {
				class = FormatText
			}
		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder,
			nfp.TokenTypeDecimalPoint, nfp.TokenTypePercent:
			class = FormatNumber
		}
	}
	return class
}
