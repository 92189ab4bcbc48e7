package collection

import (
	"bytes"
	"fmt"
)

type Logger interface {
	Printf(format string, a ...interface{})
}

// BufferedLogger keeps everything it is given until Flush.
type BufferedLogger struct {
	buffer bytes.Buffer
}

func (buflog *BufferedLogger) Printf(format string, a ...interface{}) {
	fmt.Fprintf(&buflog.buffer, format, a...)
	if n := buflog.buffer.Len(); n > 0 && buflog.buffer.Bytes()[n-1] != '\n' {
		buflog.buffer.WriteByte('\n')
	}
}

func (buflog *BufferedLogger) String() string {
	return buflog.buffer.String()
}

func (buflog *BufferedLogger) Flush(logger Logger) {
	s := buflog.buffer.String()
	if s != "" {
		logger.Printf("%v", s)
	}
	buflog.buffer.Reset()
}
