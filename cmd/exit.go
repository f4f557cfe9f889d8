package cmd

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// exitError carries a non-zero exit code for a failure that was already
// reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsage
}

// Reported says whether err was already shown to the user.
func Reported(err error) bool {
	var ee *exitError
	return errors.As(err, &ee)
}
