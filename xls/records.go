// Package xls читает и пишет двоичные книги Excel 97-2003 (BIFF8 в составном
// файле OLE2).
package xls

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nikitaxru/reportbook/model"
)

// Идентификаторы записей BIFF8.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recDateMode   = 0x0022
	recWindow1    = 0x003D
	recContinue   = 0x003C
	recCodepage   = 0x0042
	recFont       = 0x0031
	recColInfo    = 0x007D
	recBoundSheet = 0x0085
	recPalette    = 0x0092
	recMulRK      = 0x00BD
	recMulBlank   = 0x00BE
	recXF         = 0x00E0
	recMergeCells = 0x00E5
	recSST        = 0x00FC
	recLabelSST   = 0x00FD
	recDimensions = 0x0200
	recBlank      = 0x0201
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRow        = 0x0208
	recWindow2    = 0x023E
	recRK         = 0x027E
	recStyle      = 0x0293
	recFormat     = 0x041E
	recBOF        = 0x0809
)

const (
	biff8Version = 0x0600
	bofGlobals   = 0x0005
	bofWorksheet = 0x0010

	// максимальная длина данных записи
	maxRecordData = 8224

	// ограничения формата
	MaxRows        = 65536
	MaxCols        = 256
	MaxStringChars = 32767
	MaxXF          = 4050
	maxSheetName   = 31
	maxMergesInRec = 1026

	// первые 16 XF стилевые, ячейкам выдаются XF начиная с 16
	firstCellXF = 16
)

// Коды ошибок ячеек.
var errorCodes = map[string]byte{
	"#NULL!":  0x00,
	"#DIV/0!": 0x07,
	"#VALUE!": 0x0F,
	"#REF!":   0x17,
	"#NAME?":  0x1D,
	"#NUM!":   0x24,
	"#N/A":    0x2A,
}

func errorText(code byte) string {
	for s, c := range errorCodes {
		if c == code {
			return s
		}
	}
	return "#N/A"
}

// builder накапливает поток записей.
type builder struct {
	buf []byte
}

func (b *builder) record(id uint16, data []byte) {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, id)
	b.buf = binary.LittleEndian.AppendUint16(b.buf, uint16(len(data)))
	b.buf = append(b.buf, data...)
}

// recordCont пишет запись, перенося хвост длиннее 8224 байт в CONTINUE.
func (b *builder) recordCont(id uint16, data []byte) {
	for first := true; first || len(data) > 0; first = false {
		n := min(len(data), maxRecordData)
		if first {
			b.record(id, data[:n])
		} else {
			b.record(recContinue, data[:n])
		}
		data = data[n:]
	}
}

func (b *builder) len() int { return len(b.buf) }

// fields собирает тело записи.
type fields []byte

func (f fields) u8(v uint8) fields   { return append(f, v) }
func (f fields) u16(v uint16) fields { return binary.LittleEndian.AppendUint16(f, v) }
func (f fields) u32(v uint32) fields { return binary.LittleEndian.AppendUint32(f, v) }
func (f fields) f64(v float64) fields {
	return binary.LittleEndian.AppendUint64(f, math.Float64bits(v))
}
func (f fields) raw(p []byte) fields { return append(f, p...) }

// record хранит запись прочитанного потока.
type record struct {
	id   uint16
	pos  int
	data []byte
	// тела следующих за записью CONTINUE
	cont [][]byte
}

// readRecords читает записи начиная с pos до EOF включительно.
func readRecords(stream []byte, pos int) ([]record, error) {
	var recs []record
	for pos+4 <= len(stream) {
		id := binary.LittleEndian.Uint16(stream[pos:])
		n := int(binary.LittleEndian.Uint16(stream[pos+2:]))
		if pos+4+n > len(stream) {
			return nil, fmt.Errorf("%w: запись 0x%04X обрезана на смещении %d", model.ErrMalformedTemplate, id, pos)
		}
		data := stream[pos+4 : pos+4+n]
		if id == recContinue && len(recs) > 0 {
			last := &recs[len(recs)-1]
			last.cont = append(last.cont, data)
		} else {
			recs = append(recs, record{id: id, pos: pos, data: data})
		}
		pos += 4 + n
		if id == recEOF {
			return recs, nil
		}
	}
	return nil, fmt.Errorf("%w: поток записей без EOF", model.ErrMalformedTemplate)
}

func u16(b []byte, off int) int {
	if off+2 > len(b) {
		return 0
	}
	return int(binary.LittleEndian.Uint16(b[off:]))
}

func u32(b []byte, off int) uint32 {
	if off+4 > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[off:])
}

func f64(b []byte, off int) float64 {
	if off+8 > len(b) {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
}

// decodeRK разворачивает упакованное число RK.
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}
