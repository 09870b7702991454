package xls

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	paletteFirst = 8
	paletteSize  = 56
	icvAuto      = 0x40
	icvAutoBack  = 0x41
	icvFontAuto  = 0x7FFF
)

// defaultPalette хранит стандартные цвета индексов 8..63.
var defaultPalette = [paletteSize]uint32{
	0x000000, 0xFFFFFF, 0xFF0000, 0x00FF00, 0x0000FF, 0xFFFF00, 0xFF00FF, 0x00FFFF,
	0x800000, 0x008000, 0x000080, 0x808000, 0x800080, 0x008080, 0xC0C0C0, 0x808080,
	0x9999FF, 0x993366, 0xFFFFCC, 0xCCFFFF, 0x660066, 0xFF8080, 0x0066CC, 0xCCCCFF,
	0x000080, 0xFF00FF, 0xFFFF00, 0x00FFFF, 0x800080, 0x800000, 0x008080, 0x0000FF,
	0x00CCFF, 0xCCFFFF, 0xCCFFCC, 0xFFFF99, 0x99CCFF, 0xFF99CC, 0xCC99FF, 0xFFCC99,
	0x3366FF, 0x33CCCC, 0x99CC00, 0xFFCC00, 0xFF9900, 0xFF6600, 0x666699, 0x969696,
	0x003366, 0x339966, 0x003300, 0x333300, 0x993300, 0x993366, 0x333399, 0x333333,
}

// palette сопоставляет цвета RRGGBB индексам. Отсутствующие цвета занимают
// слоты с конца таблицы; когда слоты кончаются, берётся ближайший цвет.
type palette struct {
	colors [paletteSize]uint32
	used   [paletteSize]bool
	custom bool
	next   int
}

func newPalette() *palette {
	return &palette{colors: defaultPalette, next: paletteSize - 1}
}

func parseRGB(s string) (uint32, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func rgbString(c uint32) string { return fmt.Sprintf("%06X", c) }

// index возвращает индекс цвета, добавляя его в таблицу при необходимости.
func (p *palette) index(rgb string) (uint16, bool) {
	c, ok := parseRGB(rgb)
	if !ok {
		return 0, false
	}
	for i, pc := range p.colors {
		if pc == c {
			p.used[i] = true
			return uint16(paletteFirst + i), true
		}
	}
	for p.next >= 0 && p.used[p.next] {
		p.next--
	}
	if p.next < 0 {
		return p.nearest(c), true
	}
	slot := p.next
	p.colors[slot], p.used[slot], p.custom = c, true, true
	p.next--
	return uint16(paletteFirst + slot), true
}

func (p *palette) nearest(c uint32) uint16 {
	best, bestDist := 0, int64(-1)
	for i, pc := range p.colors {
		dr := int64(c>>16&0xFF) - int64(pc>>16&0xFF)
		dg := int64(c>>8&0xFF) - int64(pc>>8&0xFF)
		db := int64(c&0xFF) - int64(pc&0xFF)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint16(paletteFirst + best)
}

// color возвращает RRGGBB для индекса, "" для авто и системных цветов.
func (p *palette) color(icv int) string {
	if icv < paletteFirst || icv >= paletteFirst+paletteSize {
		return ""
	}
	return rgbString(p.colors[icv-paletteFirst])
}

// record собирает тело записи PALETTE.
func (p *palette) record() []byte {
	f := fields{}.u16(paletteSize)
	for _, c := range p.colors {
		f = f.u8(uint8(c >> 16)).u8(uint8(c >> 8)).u8(uint8(c)).u8(0)
	}
	return f
}

func (p *palette) load(data []byte) {
	n := min(u16(data, 0), paletteSize)
	for i := 0; i < n && 2+4*i+3 <= len(data); i++ {
		o := 2 + 4*i
		p.colors[i] = uint32(data[o])<<16 | uint32(data[o+1])<<8 | uint32(data[o+2])
	}
}
