// ABOUTME: Transcoder configuration
// ABOUTME: Holds input, output, encoding and reporting settings with validation
package transcode

import (
	"fmt"
	"io"
	"log"

	"github.com/vagcodec/vag-go/pkg/audio/decode"
	"github.com/vagcodec/vag-go/pkg/vag"
)

// StdoutOutput is the output name that writes to standard output
const StdoutOutput = "-"

// Config holds transcoder configuration
type Config struct {
	Input  string // path to the input file, or decode.ToneInput
	Output string // path to the output file, or StdoutOutput
	Source decode.Options

	SampleRate int // resample to this rate, 0 keeps the source rate
	Loop       vag.Loop

	WriteHeader bool   // prepend a VAGp header
	Name        string // header name, defaults to the source title

	// MaxConsecutiveSkips aborts after this many undecodable packets in a
	// row. Zero skips without limit.
	MaxConsecutiveSkips int
	Debug               bool

	Logger   *log.Logger
	Reporter Reporter
}

// Validate checks the config for values the transcoder cannot honour
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: no input", ErrInvalidConfig)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: no output", ErrInvalidConfig)
	}
	if c.SampleRate < 0 {
		return fmt.Errorf("%w: negative sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.Loop.Enabled {
		if c.Loop.Start < 0 || c.Loop.End < 0 {
			return fmt.Errorf("%w: negative loop block index", ErrInvalidConfig)
		}
		if c.Loop.End < c.Loop.Start {
			return fmt.Errorf("%w: loop end %d before loop start %d", ErrInvalidConfig, c.Loop.End, c.Loop.Start)
		}
	}
	if c.WriteHeader {
		if c.Output == StdoutOutput {
			return fmt.Errorf("%w: header needs a seekable output, not stdout", ErrInvalidConfig)
		}
		if len(c.Name) > vag.NameSize {
			return fmt.Errorf("%w: name %q longer than %d bytes", ErrInvalidConfig, c.Name, vag.NameSize)
		}
	}
	if c.MaxConsecutiveSkips < 0 {
		return fmt.Errorf("%w: negative skip limit %d", ErrInvalidConfig, c.MaxConsecutiveSkips)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	if c.Reporter == nil {
		c.Reporter = nopReporter{}
	}
	if c.Source.Logger == nil {
		c.Source.Logger = c.Logger
	}
	return c
}
