package tail

import (
	"bufio"
	"errors"
	"io"
	"math"
	"strings"
)

// Cursor marks the boundary between consumed and unconsumed bytes of the log.
type Cursor struct {
	Offset int64
}

// Line is one terminated line of the log, without its terminator.
type Line struct {
	Text   string
	Offset int64 // Byte position of the first byte of the line
}

// Drain reads every terminated line available from cur.Offset onwards and
// advances the cursor past the last one. A trailing fragment without a
// newline is left unconsumed so it is read again once the producer finishes it.
//
// On a read error the lines collected so far are returned with the error and
// the cursor covers exactly those lines.
func Drain(src io.ReaderAt, cur *Cursor) ([]Line, error) {
	section := io.NewSectionReader(src, cur.Offset, math.MaxInt64-cur.Offset)
	reader := bufio.NewReader(section)

	var lines []Line
	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Partial line (or nothing at all): stop without consuming it
				return lines, nil
			}
			return lines, err
		}

		lines = append(lines, Line{
			Text:   trimTerminator(raw),
			Offset: cur.Offset,
		})
		cur.Offset += int64(len(raw))
	}
}

func trimTerminator(raw string) string {
	raw = strings.TrimSuffix(raw, "\n")
	return strings.TrimSuffix(raw, "\r")
}
