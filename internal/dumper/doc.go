// Package dumper walks a resolved collection and persists the latest
// transcript of every page as a pair of files under the target directory.
// Page failures are logged and skipped so one broken page cannot sink a
// whole run.
package dumper
