// Package contract holds fatal invariant checks. A failed check means the
// interpreter itself is broken or has hit a non-recoverable limit; it aborts
// the process rather than producing a language exception.
package contract

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/golang/glog"
)

const (
	assertMsg = "An assertion has failed"
	failMsg   = "A failure has occurred"
)

// Assert aborts if cond is false
func Assert(cond bool) {
	if !cond {
		failfast(assertMsg)
	}
}

// Assertf aborts with a formatted message if cond is false
func Assertf(cond bool, msg string, args ...interface{}) {
	if !cond {
		failfast(fmt.Sprintf("%v: %v", assertMsg, fmt.Sprintf(msg, args...)))
	}
}

// Failf aborts unconditionally
func Failf(msg string, args ...interface{}) {
	failfast(fmt.Sprintf("%v: %v", failMsg, fmt.Sprintf(msg, args...)))
}

func failfast(msg string) {
	if f := flag.Lookup("logtostderr"); f != nil {
		if g, isgettable := f.Value.(flag.Getter); isgettable {
			if enabled, _ := g.Get().(bool); enabled {
				// glog won't print the stack itself
				fmt.Fprintf(os.Stderr, "fatal: %v\n", msg)
				debug.PrintStack()
			}
		}
	}
	glog.Fatal(msg)
}
