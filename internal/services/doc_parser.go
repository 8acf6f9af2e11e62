package services

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
)

// Word 97-2003 file information block offsets.
const (
	fibIdentOffset   = 0x0000
	fibFlagsOffset   = 0x000A
	fibCcpTextOffset = 0x004C
	fibFcClxOffset   = 0x01A2
	fibLcbClxOffset  = 0x01A6
	wordIdent        = 0xA5EC
	whichTableFlag   = 0x0200
	fcCompressedFlag = 0x40000000
	clxtPrc          = 0x01
	clxtPcdt         = 0x02
	pcdSize          = 8
)

// docParser extracts the main document text of a legacy binary Word file.
type docParser struct{}

func (p *docParser) Decode(r io.ReaderAt, _ int64) (string, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return "", fmt.Errorf("failed to open compound file: %w", err)
	}

	streams := make(map[string][]byte)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "WordDocument", "0Table", "1Table":
			data, readErr := io.ReadAll(entry)
			if readErr != nil {
				return "", fmt.Errorf("failed to read %s stream: %w", entry.Name, readErr)
			}
			streams[entry.Name] = data
		}
	}

	wordStream, ok := streams["WordDocument"]
	if !ok {
		return "", errors.New("compound file has no WordDocument stream")
	}

	tableName := "0Table"
	if len(wordStream) > fibFlagsOffset+2 && binary.LittleEndian.Uint16(wordStream[fibFlagsOffset:])&whichTableFlag != 0 {
		tableName = "1Table"
	}

	return decodeWordText(wordStream, streams[tableName])
}

// decodeWordText walks the piece table and returns the main document text.
func decodeWordText(wordStream, tableStream []byte) (string, error) {
	if len(wordStream) < fibLcbClxOffset+4 {
		return "", errors.New("WordDocument stream too short")
	}
	if binary.LittleEndian.Uint16(wordStream[fibIdentOffset:]) != wordIdent {
		return "", errors.New("not a Word 97-2003 document")
	}

	ccpText := int(binary.LittleEndian.Uint32(wordStream[fibCcpTextOffset:]))
	fcClx := int(binary.LittleEndian.Uint32(wordStream[fibFcClxOffset:]))
	lcbClx := int(binary.LittleEndian.Uint32(wordStream[fibLcbClxOffset:]))

	if fcClx < 0 || lcbClx <= 0 || fcClx+lcbClx > len(tableStream) {
		return "", errors.New("piece table out of range")
	}

	plcPcd, err := findPlcPcd(tableStream[fcClx : fcClx+lcbClx])
	if err != nil {
		return "", err
	}

	n := (len(plcPcd) - 4) / (4 + pcdSize)
	if n <= 0 {
		return "", errors.New("empty piece table")
	}

	decoder := charmap.Windows1252.NewDecoder()
	var sb strings.Builder
	remaining := ccpText

	for i := 0; i < n && remaining > 0; i++ {
		cpStart := int(binary.LittleEndian.Uint32(plcPcd[i*4:]))
		cpEnd := int(binary.LittleEndian.Uint32(plcPcd[(i+1)*4:]))
		count := cpEnd - cpStart
		if count <= 0 {
			continue
		}
		if count > remaining {
			count = remaining
		}

		pcd := plcPcd[(n+1)*4+i*pcdSize:]
		fc := binary.LittleEndian.Uint32(pcd[2:])

		if fc&fcCompressedFlag != 0 {
			offset := int(fc&^fcCompressedFlag) / 2
			if offset+count > len(wordStream) {
				return "", errors.New("compressed piece out of range")
			}
			decoded, err := decoder.Bytes(wordStream[offset : offset+count])
			if err != nil {
				return "", fmt.Errorf("failed to decode piece: %w", err)
			}
			sb.Write(decoded)
		} else {
			offset := int(fc)
			if offset+count*2 > len(wordStream) {
				return "", errors.New("unicode piece out of range")
			}
			units := make([]uint16, count)
			for j := range units {
				units[j] = binary.LittleEndian.Uint16(wordStream[offset+j*2:])
			}
			sb.WriteString(string(utf16.Decode(units)))
		}

		remaining -= count
	}

	return cleanWordControlChars(sb.String()), nil
}

// findPlcPcd skips Prc entries in a Clx and returns the PlcPcd payload.
func findPlcPcd(clx []byte) ([]byte, error) {
	for i := 0; i < len(clx); {
		switch clx[i] {
		case clxtPrc:
			if i+3 > len(clx) {
				return nil, errors.New("truncated Prc")
			}
			cb := int(int16(binary.LittleEndian.Uint16(clx[i+1:])))
			if cb <= 0 || i+3+cb > len(clx) {
				return nil, fmt.Errorf("invalid Prc size %d", cb)
			}
			i += 3 + cb
		case clxtPcdt:
			if i+5 > len(clx) {
				return nil, errors.New("truncated Pcdt")
			}
			lcb := int(binary.LittleEndian.Uint32(clx[i+1:]))
			if i+5+lcb > len(clx) {
				return nil, errors.New("PlcPcd out of range")
			}
			return clx[i+5 : i+5+lcb], nil
		default:
			return nil, fmt.Errorf("unexpected clx entry 0x%02x", clx[i])
		}
	}
	return nil, errors.New("no Pcdt in clx")
}

func cleanWordControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', 0x0B, 0x0C:
			return '\n'
		case 0x07:
			return '\t'
		case '\t', '\n':
			return r
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, text)
}
