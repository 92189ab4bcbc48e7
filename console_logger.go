package collection

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ConsoleLogger prints each message on its own line. Writer defaults to os.Stderr.
type ConsoleLogger struct {
	Writer io.Writer
}

func (logger ConsoleLogger) Printf(format string, a ...interface{}) {
	w := logger.Writer
	if w == nil {
		w = os.Stderr
	}
	msg := fmt.Sprintf(format, a...)
	fmt.Fprint(w, msg)
	if !strings.HasSuffix(msg, "\n") {
		fmt.Fprintln(w)
	}
}
