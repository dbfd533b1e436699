package trace

import (
	"avm/types"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Tracer provides execution tracing for debugging
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// New creates a tracer. A nil writer traces to stderr.
func New(enabled bool, filters []string, writer io.Writer) *Tracer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// Init initializes the global tracer
func Init(enabled bool, filters []string, writer io.Writer) {
	globalTracer = New(enabled, filters, writer)
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// ParseFilters splits a comma-separated glob list
func ParseFilters(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	filters := strings.Split(s, ",")
	for i := range filters {
		filters[i] = strings.TrimSpace(filters[i])
	}
	return filters
}

// matchesFilter checks if a function body name matches any of the filter patterns
func (t *Tracer) matchesFilter(body string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, body); matched {
			return true
		}
	}
	return false
}

// Call logs a function call
func (t *Tracer) Call(body string, arg types.Node, line types.LineInfo) {
	if !t.enabled || !t.matchesFilter(body) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] CALL %s arg=%s at %s:%d\n",
		body, truncate(types.Display(arg)), line.Module, line.Line)
}

// Return logs a function return value
func (t *Tracer) Return(body string, result types.Node) {
	if !t.enabled || !t.matchesFilter(body) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	resultStr := "none"
	if result != nil {
		resultStr = truncate(types.Display(result))
	}

	fmt.Fprintf(t.writer, "[TRACE] RETURN %s => %s\n", body, resultStr)
}

// Exception logs an exception leaving a function
func (t *Tracer) Exception(body string, err error) {
	if !t.enabled || !t.matchesFilter(body) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] EXCEPTION %s %v\n", body, err)
}

// Clause logs the outcome of trying one function clause
func (t *Tracer) Clause(body string, index int, pattern types.Node, matched bool) {
	if !t.enabled || !t.matchesFilter(body) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	outcome := "no match"
	if matched {
		outcome = "match"
	}
	fmt.Fprintf(t.writer, "[TRACE]   CLAUSE %s#%d %s: %s\n",
		body, index, truncate(types.Display(pattern)), outcome)
}

// Warning logs an interpreter warning
func (t *Tracer) Warning(message string) {
	if !t.enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] WARNING %s\n", message)
}

// Truncate long values for readability
func truncate(s string) string {
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}

// Global convenience functions

// Call logs a function call using the global tracer
func Call(body string, arg types.Node, line types.LineInfo) {
	if globalTracer != nil {
		globalTracer.Call(body, arg, line)
	}
}

// Return logs a function return using the global tracer
func Return(body string, result types.Node) {
	if globalTracer != nil {
		globalTracer.Return(body, result)
	}
}

// Exception logs an exception using the global tracer
func Exception(body string, err error) {
	if globalTracer != nil {
		globalTracer.Exception(body, err)
	}
}

// Clause logs a clause attempt using the global tracer
func Clause(body string, index int, pattern types.Node, matched bool) {
	if globalTracer != nil {
		globalTracer.Clause(body, index, pattern, matched)
	}
}

// Warning logs a warning using the global tracer
func Warning(message string) {
	if globalTracer != nil {
		globalTracer.Warning(message)
	}
}
