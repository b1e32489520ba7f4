package container

import (
	"bytes"
	"io"
	"sync"
)

// LineWriter forwards complete lines to an underlying writer as soon as they are written
type LineWriter struct {
	mu  sync.Mutex
	out io.Writer
	buf []byte
}

// NewLineWriter wraps out
func NewLineWriter(out io.Writer) *LineWriter {
	return &LineWriter{out: out}
}

func (l *LineWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf = append(l.buf, p...)
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}
		if _, err := l.out.Write(l.buf[:i+1]); err != nil {
			return 0, err
		}
		l.buf = l.buf[i+1:]
	}
	return len(p), nil
}

// Flush writes any pending partial line, terminated by a newline
func (l *LineWriter) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buf) == 0 {
		return nil
	}
	pending := append(l.buf, '\n')
	l.buf = nil
	_, err := l.out.Write(pending)
	return err
}
