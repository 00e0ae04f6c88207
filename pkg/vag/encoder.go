// ABOUTME: VAG stream encoder
// ABOUTME: Splits packets into blocks, writes chunks and the end-of-stream terminator
package vag

import (
	"fmt"
	"io"
)

// WriteError reports a chunk that could not be written to the sink
type WriteError struct {
	Chunk int // index of the chunk in the stream
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write chunk %d: %v", e.Chunk, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Encoder turns packet-segmented PCM into a stream of VAG chunks.
//
// Blocks never span packets: the last block of a packet is zero padded and
// prediction history restarts at zero with every packet.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	w          io.Writer
	lastHeader byte
	chunks     int
}

// NewEncoder creates an encoder writing chunks to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// EncodePacket encodes one packet of interleaved samples and returns the
// number of bytes written. The first failed write aborts the packet.
func (e *Encoder) EncodePacket(samples []int16, loop Loop) (int, error) {
	var filter, recon History
	var buf [BlockSamples]int16
	written := 0

	for index, pos := 0, 0; pos < len(samples); index, pos = index+1, pos+BlockSamples {
		n := copy(buf[:], samples[pos:])
		clear(buf[n:])

		block := EncodeBlock(&buf, &filter, &recon)
		flag, stop := BlockFlag(index, len(samples)-pos <= BlockSamples, loop)

		e.lastHeader = block.Header()
		n, err := e.writeChunk(block.Chunk(flag))
		written += n
		if err != nil {
			return written, err
		}

		if stop {
			break
		}
	}

	return written, nil
}

// EncodeEnding finishes the stream. Without looping it writes one
// PlaybackEnd chunk that repeats the last header byte; with looping it
// writes nothing.
func (e *Encoder) EncodeEnding(loop bool) (int, error) {
	if loop {
		return 0, nil
	}
	return e.writeChunk(Chunk{
		Header: e.lastHeader,
		Flag:   FlagPlaybackEnd,
	})
}

// LastHeader returns the header byte of the most recent chunk
func (e *Encoder) LastHeader() byte { return e.lastHeader }

// Chunks returns the number of chunks written so far
func (e *Encoder) Chunks() int { return e.chunks }

func (e *Encoder) writeChunk(c Chunk) (int, error) {
	b := c.Bytes()
	n, err := e.w.Write(b[:])
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, &WriteError{Chunk: e.chunks, Err: err}
	}
	e.chunks++
	return n, nil
}
