// ABOUTME: Transcode pipeline from an audio source to a VAG stream
// ABOUTME: Opens the source, encodes packet by packet and finishes the output
package transcode

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/vagcodec/vag-go/pkg/audio/decode"
	"github.com/vagcodec/vag-go/pkg/audio/resample"
	"github.com/vagcodec/vag-go/pkg/vag"
)

// Result summarises a finished transcode
type Result struct {
	Packets int   // packets encoded
	Skipped int   // packets that failed to decode
	Chunks  int   // chunks written, terminator included
	Bytes   int64 // chunk bytes written, header excluded
	Frames  int64 // sample frames encoded
}

// Run transcodes cfg.Input into cfg.Output
func Run(cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	cfg = cfg.withDefaults()

	src, err := decode.Open(cfg.Input, cfg.Source)
	if err != nil {
		return Result{}, &FileError{Op: "open", Path: cfg.Input, Err: err}
	}
	defer src.Close()

	format := src.Format()
	if format.Channels > 2 {
		return Result{}, fmt.Errorf("%w: %d channels (supported: 1, 2)", ErrUnsupportedChannelLayout, format.Channels)
	}

	if cfg.SampleRate > 0 && cfg.SampleRate != format.SampleRate {
		cfg.Logger.Printf("Resampling %d Hz -> %d Hz", format.SampleRate, cfg.SampleRate)
		src = resample.NewSource(src, cfg.SampleRate)
		format = src.Format()
	}

	sink, err := OpenSink(cfg.Output)
	if err != nil {
		return Result{}, &FileError{Op: "create", Path: cfg.Output, Err: err}
	}
	defer sink.Close()

	if cfg.WriteHeader {
		name := cfg.Name
		if name == "" {
			title, _, _ := src.Metadata()
			name = truncateName(title, vag.NameSize)
		}

		header := vag.FileHeader{
			Version:    vag.HeaderVersion,
			SampleRate: uint32(format.SampleRate),
			Name:       name,
		}
		b, err := header.MarshalBinary()
		if err != nil {
			return Result{}, fmt.Errorf("encode header: %w", err)
		}
		if _, err := sink.Write(b); err != nil {
			return Result{}, fmt.Errorf("write header: %w", err)
		}
	}

	res, err := Encode(src, sink, cfg)
	if err != nil {
		// Keep what was written so far
		_ = sink.Flush()
		return res, err
	}

	if cfg.WriteHeader {
		size := vag.DataSizeField(uint32(res.Bytes))
		if err := sink.PatchAt(vag.DataSizeOffset, size[:]); err != nil {
			return res, fmt.Errorf("patch header: %w", err)
		}
	}

	if err := sink.Flush(); err != nil {
		return res, fmt.Errorf("flush output: %w", err)
	}
	if err := sink.Close(); err != nil {
		return res, &FileError{Op: "close", Path: cfg.Output, Err: err}
	}

	cfg.Logger.Printf("Wrote %d chunks (%d bytes) from %d packets to %s, %d skipped",
		res.Chunks, res.Bytes, res.Packets, cfg.Output, res.Skipped)

	return res, nil
}

// Encode reads every packet from src and writes the VAG chunk stream to w,
// ending with the terminator unless looping is enabled.
//
// A packet that fails to decode is skipped. When cfg.MaxConsecutiveSkips is
// set, more than that many in a row abort the transcode.
func Encode(src decode.Source, w io.Writer, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()

	enc := vag.NewEncoder(w)
	title, _, _ := src.Metadata()
	format := src.Format()

	var res Result
	consecutive := 0

	report := func(done bool) {
		cfg.Reporter.Report(Progress{
			Title:       title,
			Format:      format,
			Packets:     res.Packets,
			Skipped:     res.Skipped,
			Chunks:      res.Chunks,
			Bytes:       res.Bytes,
			FramesDone:  res.Frames,
			FramesTotal: format.Frames,
			Done:        done,
		})
	}

	for {
		packet, err := src.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}

		var packetErr *decode.PacketError
		if errors.As(err, &packetErr) {
			res.Skipped++
			consecutive++
			cfg.Logger.Printf("Skipping packet %d: %v", packetErr.Packet, packetErr.Err)
			if cfg.MaxConsecutiveSkips > 0 && consecutive > cfg.MaxConsecutiveSkips {
				return res, fmt.Errorf("%w: %d in a row: %w", ErrTooManySkips, consecutive, err)
			}
			report(false)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("read packet: %w", err)
		}
		consecutive = 0

		if packet.Channels > 2 {
			return res, fmt.Errorf("%w: %d channels (supported: 1, 2)", ErrUnsupportedChannelLayout, packet.Channels)
		}

		n, err := enc.EncodePacket(packet.Samples, cfg.Loop)
		res.Bytes += int64(n)
		res.Chunks = enc.Chunks()
		if err != nil {
			return res, err
		}
		res.Packets++
		res.Frames += int64(packet.Frames())

		if cfg.Debug {
			cfg.Logger.Printf("Packet %d: %d frames, %d chunks total, last header 0x%02x",
				res.Packets-1, packet.Frames(), res.Chunks, enc.LastHeader())
		}
		report(false)
	}

	n, err := enc.EncodeEnding(cfg.Loop.Enabled)
	res.Bytes += int64(n)
	res.Chunks = enc.Chunks()
	if err != nil {
		return res, err
	}

	report(true)
	return res, nil
}

// truncateName cuts name to at most n bytes without splitting a UTF-8 sequence
func truncateName(name string, n int) string {
	if len(name) <= n {
		return name
	}
	for n > 0 && !utf8.RuneStart(name[n]) {
		n--
	}
	return name[:n]
}
