package dumper

import "fmt"

// FileError reports a failed filesystem operation under the target
// directory.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }
