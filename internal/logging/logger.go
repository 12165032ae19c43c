package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New creates the application logger. Info and above go to output; debug
// lowers the level so layer resolution is traced as well.
func New(debug bool, output io.Writer) hclog.Logger {
	level := hclog.Info
	if debug {
		level = hclog.Debug
	}
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "cargocov",
		Level:  level,
		Output: output,
	})
}
