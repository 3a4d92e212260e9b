// Package exitcode provides the process exit codes for repokit.
//
// Every fatal error exits with GeneralError whatever its kind; a benign
// no-op is a Success.
package exitcode

const (
	Success      = 0
	GeneralError = 1
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	default:
		return "Unknown error"
	}
}

// ForError maps a command error to its exit code.
func ForError(err error) int {
	if err == nil {
		return Success
	}
	return GeneralError
}
