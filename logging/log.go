package logging

import (
	"flag"
	"strconv"

	"github.com/golang/glog"
)

// InitLogging ensures glog has been initialized with the given settings.
// glog is only configurable through its flags, so this pokes at them directly.
func InitLogging(logToStderr bool, verbose int) {
	if !flag.Parsed() {
		_ = flag.CommandLine.Parse(nil)
	}
	if logToStderr {
		_ = flag.Lookup("logtostderr").Value.Set("true")
	}
	if verbose > 0 {
		_ = flag.Lookup("v").Value.Set(strconv.Itoa(verbose))
	}
}

// Flush writes any buffered log entries
func Flush() {
	glog.Flush()
}

// V reports whether verbose logging at level is enabled
func V(level int) bool {
	return bool(glog.V(glog.Level(level)))
}
