// Package cli is responsible for parsing command-line arguments, resolving
// configuration from flags, environment variables and the optional HCL
// profile, and handling process-level concerns like exit codes and error
// presentation.
package cli
