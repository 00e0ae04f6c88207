// ABOUTME: Transcoder error types
// ABOUTME: Sentinel errors and file errors reported by the transcode pipeline
package transcode

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedChannelLayout is returned for sources with more than two channels
	ErrUnsupportedChannelLayout = errors.New("unsupported channel layout")

	// ErrTooManySkips is returned when too many packets in a row fail to decode
	ErrTooManySkips = errors.New("too many consecutive undecodable packets")

	// ErrInvalidConfig is returned by Config.Validate
	ErrInvalidConfig = errors.New("invalid config")
)

// FileError reports a failure to open the input or create the output
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
