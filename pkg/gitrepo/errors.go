package gitrepo

import (
	"fmt"
	"regexp"
	"strings"
)

// tokenPattern matches access tokens embedded in HTTPS remote URLs. Git
// happily echoes the remote URL into error output, so both the argument
// list and the captured stderr go through redaction before display.
var tokenPattern = regexp.MustCompile(`x-access-token:[^@\s]+@`)

// Redact masks embedded access tokens in s.
func Redact(s string) string {
	return tokenPattern.ReplaceAllString(s, "x-access-token:***@")
}

// CommandError reports a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
	Cause    error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed (exit %d)", Redact(strings.Join(e.Args, " ")), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + Redact(e.Stderr)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *CommandError) Unwrap() error {
	return e.Cause
}
