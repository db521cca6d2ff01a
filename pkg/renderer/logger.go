package renderer

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/df07/go-pathtracer/pkg/core"
)

// glogLogger implements core.Logger on top of glog's INFO log
type glogLogger struct{}

func (glogLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// NewDefaultLogger creates a logger that writes to glog
func NewDefaultLogger() core.Logger {
	return glogLogger{}
}
