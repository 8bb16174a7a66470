package codec

import (
	"bytes"

	through "github.com/imishinist/go-through"
)

// Lines returns a byte-mode unit that splits its input on '\n' and pushes
// one []byte per line, without the newline and any trailing '\r'. Blank
// lines are skipped. A final line without newline is pushed on end.
func Lines() *through.DestroyableTransform {
	var rest []byte

	transform := func(chunk any, _ string, next through.Callback) {
		rest = append(rest, chunk.([]byte)...)

		var lines []any
		for {
			i := bytes.IndexByte(rest, '\n')
			if i < 0 {
				break
			}
			if line := trim(rest[:i]); len(line) > 0 {
				lines = append(lines, bytes.Clone(line))
			}
			rest = rest[i+1:]
		}
		rest = bytes.Clone(rest)
		next(nil, lines...)
	}
	flush := func(next through.Callback) {
		if line := trim(rest); len(line) > 0 {
			next(nil, line)
			return
		}
		next(nil)
	}
	return through.WithConfig(through.Config{Mode: through.ModeBytes, Name: "lines"}, transform, flush)
}

func trim(line []byte) []byte {
	return bytes.TrimSuffix(line, []byte{'\r'})
}
