package collection

import (
	"bytes"
	"testing"
)

func TestBufferedLogger(t *testing.T) {
	logger := BufferedLogger{}
	logger.Printf("page %d", 1)
	logger.Printf("done\n")

	if got := logger.String(); got != "page 1\ndone\n" {
		t.Errorf("String() = %q", got)
	}

	var out bytes.Buffer
	logger.Flush(ConsoleLogger{Writer: &out})
	if got := out.String(); got != "page 1\ndone\n" {
		t.Errorf("flushed %q", got)
	}
	if got := logger.String(); got != "" {
		t.Errorf("String() after Flush = %q", got)
	}

	logger.Flush(ConsoleLogger{Writer: &out})
	if got := out.String(); got != "page 1\ndone\n" {
		t.Errorf("empty Flush wrote %q", got)
	}
}
