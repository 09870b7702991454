package xls

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"

	"github.com/nikitaxru/reportbook/model"
)

// Составной файл версии 3: сектора по 512 байт, один поток без мини-потока.
const (
	sectorSize      = 512
	dirEntrySize    = 128
	miniCutoff      = 4096
	headerDIFAT     = 109
	idsPerSector    = sectorSize / 4
	freeSect        = 0xFFFFFFFF
	endOfChain      = 0xFFFFFFFE
	fatSect         = 0xFFFFFFFD
	difSect         = 0xFFFFFFFC
	noStream        = 0xFFFFFFFF
	workbookStream  = "Workbook"
	legacyBookEntry = "Book"
)

var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// writeCompoundFile упаковывает поток Workbook в составной файл. Поток короче
// порога мини-потока дополняется нулями, чтобы обойтись без мини-FAT.
func writeCompoundFile(w io.Writer, stream []byte) error {
	if len(stream) < miniCutoff {
		stream = append(stream, make([]byte, miniCutoff-len(stream))...)
	}
	nData := (len(stream) + sectorSize - 1) / sectorSize
	const nDir = 1
	nFAT, nDIFAT := 0, 0
	for {
		total := nData + nDir + nFAT + nDIFAT
		needFAT := (total + idsPerSector - 1) / idsPerSector
		needDIFAT := 0
		if needFAT > headerDIFAT {
			needDIFAT = (needFAT - headerDIFAT + idsPerSector - 2) / (idsPerSector - 1)
		}
		if needFAT == nFAT && needDIFAT == nDIFAT {
			break
		}
		nFAT, nDIFAT = needFAT, needDIFAT
	}

	dirStart := nData
	fatStart := dirStart + nDir
	difatStart := fatStart + nFAT

	fat := make([]uint32, nFAT*idsPerSector)
	for i := range fat {
		fat[i] = freeSect
	}
	for i := 0; i < nData-1; i++ {
		fat[i] = uint32(i + 1)
	}
	fat[nData-1] = endOfChain
	fat[dirStart] = endOfChain
	for i := 0; i < nFAT; i++ {
		fat[fatStart+i] = fatSect
	}
	for i := 0; i < nDIFAT; i++ {
		fat[difatStart+i] = difSect
	}

	hdr := make([]byte, sectorSize)
	copy(hdr, cfbSignature)
	le := binary.LittleEndian
	le.PutUint16(hdr[24:], 0x003E)
	le.PutUint16(hdr[26:], 0x0003)
	le.PutUint16(hdr[28:], 0xFFFE)
	le.PutUint16(hdr[30:], 9)
	le.PutUint16(hdr[32:], 6)
	le.PutUint32(hdr[44:], uint32(nFAT))
	le.PutUint32(hdr[48:], uint32(dirStart))
	le.PutUint32(hdr[56:], miniCutoff)
	le.PutUint32(hdr[60:], endOfChain)
	if nDIFAT > 0 {
		le.PutUint32(hdr[68:], uint32(difatStart))
	} else {
		le.PutUint32(hdr[68:], endOfChain)
	}
	le.PutUint32(hdr[72:], uint32(nDIFAT))
	for i := 0; i < headerDIFAT; i++ {
		v := uint32(freeSect)
		if i < nFAT {
			v = uint32(fatStart + i)
		}
		le.PutUint32(hdr[76+4*i:], v)
	}

	dir := make([]byte, sectorSize)
	putDirEntry(dir[0:], "Root Entry", 5, 1, endOfChain, 0)
	putDirEntry(dir[dirEntrySize:], workbookStream, 2, noStream, 0, uint32(len(stream)))
	for i := 2; i < sectorSize/dirEntrySize; i++ {
		e := dir[i*dirEntrySize:]
		le.PutUint32(e[68:], noStream)
		le.PutUint32(e[72:], noStream)
		le.PutUint32(e[76:], noStream)
	}

	var out bytes.Buffer
	out.Grow(sectorSize * (1 + nData + nDir + nFAT + nDIFAT))
	out.Write(hdr)
	out.Write(stream)
	if pad := nData*sectorSize - len(stream); pad > 0 {
		out.Write(make([]byte, pad))
	}
	out.Write(dir)
	sec := make([]byte, sectorSize)
	for _, id := range fat {
		le.PutUint32(sec[:4], id)
		out.Write(sec[:4])
	}
	next := fatStart + headerDIFAT
	for i := 0; i < nDIFAT; i++ {
		for j := 0; j < idsPerSector-1; j++ {
			v := uint32(freeSect)
			if next < fatStart+nFAT {
				v = uint32(next)
				next++
			}
			le.PutUint32(sec[4*j:], v)
		}
		last := uint32(endOfChain)
		if i < nDIFAT-1 {
			last = uint32(difatStart + i + 1)
		}
		le.PutUint32(sec[sectorSize-4:], last)
		out.Write(sec)
	}
	_, err := out.WriteTo(w)
	return err
}

// putDirEntry заполняет запись каталога. Для корня child указывает на поток,
// у самого потока он равен NOSTREAM.
func putDirEntry(e []byte, name string, typ byte, child, start, size uint32) {
	le := binary.LittleEndian
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		le.PutUint16(e[2*i:], u)
	}
	le.PutUint16(e[64:], uint16(2*(len(units)+1)))
	e[66] = typ
	e[67] = 1 // чёрный узел
	le.PutUint32(e[68:], noStream)
	le.PutUint32(e[72:], noStream)
	le.PutUint32(e[76:], child)
	le.PutUint32(e[116:], start)
	le.PutUint32(e[120:], size)
}

// readWorkbookStream достаёт поток Workbook (или Book) из составного файла.
func readWorkbookStream(data []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: составной файл: %w", model.ErrMalformedTemplate, err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != workbookStream && entry.Name != legacyBookEntry {
			continue
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("%w: поток %s: %w", model.ErrMalformedTemplate, entry.Name, err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("%w: нет потока Workbook", model.ErrMalformedTemplate)
}
