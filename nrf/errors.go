package nrf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVerifyFailed means a written file did not read back as expected.
var ErrVerifyFailed = errors.New("output verification failed")

// IOError reports a file that could not be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ExternalToolError reports a converter process that did not exit cleanly.
type ExternalToolError struct {
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *ExternalToolError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stdout != "" {
		sb.WriteString("\n" + strings.TrimRight(e.Stdout, "\n"))
	}
	if e.Stderr != "" {
		sb.WriteString("\n" + strings.TrimRight(e.Stderr, "\n"))
	}
	return sb.String()
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}
