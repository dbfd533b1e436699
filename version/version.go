// Package version records the interpreter version. Conformance suites
// compare it against their requires.avm range.
package version

// Version is the semantic version of the virtual machine
var Version = "0.4.0"
