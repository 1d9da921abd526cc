package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/vk/ts-dumper/internal/dumper"
	"github.com/vk/ts-dumper/internal/transkribus"
)

// Exit codes per failure class.
const (
	ExitConfiguration  = 2
	ExitAuthentication = 3
	ExitNotFound       = 4
	ExitTransport      = 5
	ExitFilesystem     = 6
)

// ExitCode maps an error to the process exit status for its failure class.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var authErr *transkribus.AuthError
	if errors.As(err, &authErr) {
		return ExitAuthentication
	}
	var nfErr *transkribus.NotFoundError
	if errors.As(err, &nfErr) {
		return ExitNotFound
	}
	var tpErr *transkribus.TransportError
	if errors.As(err, &tpErr) {
		return ExitTransport
	}
	var fileErr *dumper.FileError
	if errors.As(err, &fileErr) {
		return ExitFilesystem
	}
	return 1
}

// TraceEnabled reports whether full tracebacks were requested, either via
// -x on the command line or the VSS_EM_EXC environment variable. It scans
// the raw arguments so tracing works even when flag parsing itself failed.
func TraceEnabled(args []string) bool {
	if os.Getenv(TraceEnvVar) != "" {
		return true
	}
	return slices.Contains(args, "-x")
}

// PrintError writes err to w. With trace enabled the full unwrap chain is
// printed one cause per line; otherwise a single summary plus a hint.
func PrintError(w io.Writer, err error, trace bool) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if !trace {
		fmt.Fprintf(w, "Run with -x or set %s to see full exception information.\n", TraceEnvVar)
		return
	}
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "  caused by: %v\n", cause)
	}
}
