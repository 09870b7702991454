package xls

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/nikitaxru/reportbook/model"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// charCount считает длину строки в символах UTF-16, как её считает Excel.
func charCount(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func isLatin1(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}
	return true
}

// encodeChars кодирует строку в сжатый Latin-1, если это возможно, иначе в UTF-16LE.
func encodeChars(s string) (high bool, chars []byte) {
	if isLatin1(s) {
		b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
		if err == nil {
			return false, b
		}
	}
	b, _ := utf16le.NewEncoder().Bytes([]byte(s))
	return true, b
}

func decodeChars(p []byte, high bool) string {
	var (
		b   []byte
		err error
	)
	if high {
		b, err = utf16le.NewDecoder().Bytes(p)
	} else {
		b, err = charmap.ISO8859_1.NewDecoder().Bytes(p)
	}
	if err != nil {
		return string(p)
	}
	return string(b)
}

// xlString кодирует XLUnicodeString (lenlen=2) или ShortXLUnicodeString (lenlen=1).
func xlString(s string, lenlen int) []byte {
	high, chars := encodeChars(s)
	n := len(chars)
	if high {
		n /= 2
	}
	var out fields
	if lenlen == 1 {
		out = out.u8(uint8(n))
	} else {
		out = out.u16(uint16(n))
	}
	if high {
		out = out.u8(0x01)
	} else {
		out = out.u8(0x00)
	}
	return out.raw(chars)
}

// readXLString разбирает строку внутри одной записи; возвращает позицию после неё.
func readXLString(p []byte, pos, lenlen int) (string, int, error) {
	if pos+lenlen+1 > len(p) {
		return "", pos, fmt.Errorf("%w: строка обрезана", model.ErrMalformedTemplate)
	}
	var n int
	if lenlen == 1 {
		n = int(p[pos])
	} else {
		n = int(binary.LittleEndian.Uint16(p[pos:]))
	}
	pos += lenlen
	grbit := p[pos]
	pos++
	rt, sz := 0, 0
	if grbit&0x08 != 0 {
		rt = u16(p, pos)
		pos += 2
	}
	if grbit&0x04 != 0 {
		sz = int(u32(p, pos))
		pos += 4
	}
	width := 1
	if grbit&0x01 != 0 {
		width = 2
	}
	if pos+n*width > len(p) {
		return "", pos, fmt.Errorf("%w: строка обрезана", model.ErrMalformedTemplate)
	}
	s := decodeChars(p[pos:pos+n*width], width == 2)
	return s, pos + n*width + rt*4 + sz, nil
}

// writeSST пишет таблицу общих строк. Заголовок строки (длина и флаги) не
// разрывается между записями; символы переносятся в CONTINUE с новым байтом флагов.
func writeSST(b *builder, st *model.StringTable) {
	var recs [][]byte
	cur := fields{}.u32(uint32(st.Total)).u32(uint32(len(st.Strings)))
	flush := func() {
		recs = append(recs, cur)
		cur = fields{}
	}
	for _, s := range st.Strings {
		high, chars := encodeChars(s)
		width := 1
		if high {
			width = 2
		}
		n := len(chars) / width
		if len(cur)+3+width > maxRecordData {
			flush()
		}
		cur = cur.u16(uint16(n))
		opt := uint8(0)
		if high {
			opt = 0x01
		}
		cur = cur.u8(opt)
		for len(chars) > 0 {
			room := (maxRecordData - len(cur)) / width
			if room == 0 {
				flush()
				cur = cur.u8(opt)
				continue
			}
			take := min(room, len(chars)/width) * width
			cur = cur.raw(chars[:take])
			chars = chars[take:]
		}
	}
	flush()
	for i, r := range recs {
		if i == 0 {
			b.record(recSST, r)
		} else {
			b.record(recContinue, r)
		}
	}
}

// contReader читает данные записи вместе с её CONTINUE.
type contReader struct {
	chunks [][]byte
	ci     int
	pos    int
}

func (r *contReader) ensure(n int) error {
	for r.ci < len(r.chunks) && r.pos >= len(r.chunks[r.ci]) {
		r.ci++
		r.pos = 0
	}
	if r.ci >= len(r.chunks) || r.pos+n > len(r.chunks[r.ci]) {
		return fmt.Errorf("%w: SST обрезана", model.ErrMalformedTemplate)
	}
	return nil
}

func (r *contReader) u8() (int, error) {
	if err := r.ensure(1); err != nil {
		return 0, err
	}
	v := r.chunks[r.ci][r.pos]
	r.pos++
	return int(v), nil
}

func (r *contReader) u16() (int, error) {
	if err := r.ensure(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.chunks[r.ci][r.pos:])
	r.pos += 2
	return int(v), nil
}

func (r *contReader) u32() (int, error) {
	if err := r.ensure(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.chunks[r.ci][r.pos:])
	r.pos += 4
	return int(v), nil
}

func (r *contReader) skip(n int) error {
	for n > 0 {
		if err := r.ensure(1); err != nil {
			return err
		}
		k := min(n, len(r.chunks[r.ci])-r.pos)
		r.pos += k
		n -= k
	}
	return nil
}

// chars читает n символов; на границе CONTINUE идёт новый байт флагов.
// Суррогатная пара может оказаться разорвана, поэтому склеиваются единицы UTF-16.
func (r *contReader) chars(n int, high bool) (string, error) {
	units := make([]uint16, 0, n)
	for n > 0 {
		if r.pos >= len(r.chunks[r.ci]) {
			opt, err := r.u8()
			if err != nil {
				return "", err
			}
			high = opt&0x01 != 0
		}
		chunk := r.chunks[r.ci]
		width := 1
		if high {
			width = 2
		}
		avail := (len(chunk) - r.pos) / width
		if avail == 0 {
			return "", fmt.Errorf("%w: SST обрезана", model.ErrMalformedTemplate)
		}
		take := min(avail, n)
		for i := 0; i < take; i++ {
			if high {
				units = append(units, binary.LittleEndian.Uint16(chunk[r.pos+2*i:]))
			} else {
				// байт Latin-1 совпадает с кодовой точкой
				units = append(units, uint16(chunk[r.pos+i]))
			}
		}
		r.pos += take * width
		n -= take
	}
	return string(utf16.Decode(units)), nil
}

func readSST(rec record) ([]string, error) {
	r := &contReader{chunks: append([][]byte{rec.data}, rec.cont...)}
	if _, err := r.u32(); err != nil {
		return nil, err
	}
	unique, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, min(unique, 1<<16))
	for range unique {
		n, err := r.u16()
		if err != nil {
			return nil, err
		}
		opt, err := r.u8()
		if err != nil {
			return nil, err
		}
		rt, sz := 0, 0
		if opt&0x08 != 0 {
			if rt, err = r.u16(); err != nil {
				return nil, err
			}
		}
		if opt&0x04 != 0 {
			if sz, err = r.u32(); err != nil {
				return nil, err
			}
		}
		s, err := r.chars(n, opt&0x01 != 0)
		if err != nil {
			return nil, err
		}
		if err := r.skip(rt*4 + sz); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
