// ABOUTME: Buffered output sink for encoded chunks
// ABOUTME: Writes to a file or stdout and can patch bytes already written
package transcode

import (
	"bufio"
	"errors"
	"os"
)

// errNotSeekable is returned when patching a sink that cannot seek
var errNotSeekable = errors.New("output is not seekable")

// Sink buffers writes to the output. Nothing reaches the output before Flush
// or before the buffer fills.
type Sink struct {
	file *os.File
	w    *bufio.Writer
	own  bool // close the file on Close
}

// OpenSink creates the output file, or wraps stdout for StdoutOutput
func OpenSink(path string) (*Sink, error) {
	if path == StdoutOutput {
		return &Sink{file: os.Stdout, w: bufio.NewWriter(os.Stdout)}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Sink{file: f, w: bufio.NewWriter(f), own: true}, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Flush writes buffered bytes to the output
func (s *Sink) Flush() error {
	return s.w.Flush()
}

// PatchAt flushes and overwrites bytes at offset from the start of the output
func (s *Sink) PatchAt(offset int64, b []byte) error {
	if !s.own {
		return errNotSeekable
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	_, err := s.file.WriteAt(b, offset)
	return err
}

// Close closes the output file. Stdout is left open.
func (s *Sink) Close() error {
	if !s.own {
		return nil
	}
	return s.file.Close()
}
