package protocol

import "bytes"

// DefaultMaxLineBytes bounds a single line passed through a Framer.
const DefaultMaxLineBytes = 64 * 1024

// Framer splits an arbitrarily chunked byte stream into newline-terminated
// lines. After every Feed the buffer holds no '\n': only the trailing
// partial line, if any, is kept for the next call.
type Framer struct {
	buf     []byte
	max     int
	dropped int
	// skipping is set after an oversize partial line was discarded; bytes are
	// thrown away until the next terminator.
	skipping bool
}

// NewFramer returns a Framer that discards lines longer than max bytes,
// whether they arrive whole or in pieces. max <= 0 selects DefaultMaxLineBytes.
func NewFramer(max int) *Framer {
	if max <= 0 {
		max = DefaultMaxLineBytes
	}
	return &Framer{max: max}
}

// Feed appends chunk and returns every complete line in order, without the
// terminator and without a trailing '\r'. An empty line comes back as "".
func (f *Framer) Feed(chunk []byte) []string {
	f.buf = append(f.buf, chunk...)

	var lines []string
	start := 0
	for {
		i := bytes.IndexByte(f.buf[start:], '\n')
		if i < 0 {
			break
		}
		end := start + i
		switch {
		case f.skipping:
			f.skipping = false
		case end-start > f.max:
			f.dropped++
		default:
			lines = append(lines, string(bytes.TrimSuffix(f.buf[start:end], []byte{'\r'})))
		}
		start = end + 1
	}

	// Keep only the unterminated tail; copy so the backing array can shrink.
	rest := len(f.buf) - start
	switch {
	case rest == 0:
		f.buf = f.buf[:0]
	case f.skipping || rest > f.max:
		if !f.skipping {
			f.dropped++
		}
		f.skipping = true
		f.buf = f.buf[:0]
	default:
		f.buf = append(f.buf[:0], f.buf[start:]...)
	}
	return lines
}

// Buffered returns the number of bytes waiting for a terminator.
func (f *Framer) Buffered() int { return len(f.buf) }

// Dropped returns how many oversize lines were discarded.
func (f *Framer) Dropped() int { return f.dropped }
