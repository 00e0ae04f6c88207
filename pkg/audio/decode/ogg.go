// ABOUTME: Ogg packet demuxer shared by the Opus and Vorbis sources
// ABOUTME: Reassembles packets from gopus-parsed pages and resyncs after corrupt pages
package decode

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/thesyncim/gopus/container/ogg"
)

const (
	oggHeaderSize  = 27
	oggCapture     = "OggS"
	oggMaxPageSize = oggHeaderSize + 255 + 255*255
)

// ErrTruncatedStream is returned when an Ogg stream ends before its
// end-of-stream page
var ErrTruncatedStream = errors.New("ogg stream ended before its end-of-stream page")

// oggDemuxer yields the packets of the first logical stream in an Ogg file.
// A page failing its CRC is dropped together with every packet touching it;
// ReadPacket reports it once as ogg.ErrBadCRC and resumes at the next page.
type oggDemuxer struct {
	r *bufio.Reader

	serial  uint32
	started bool
	eos     bool
	pages   int

	queue       [][]byte // complete packets of the current page
	partial     []byte   // packet continuing onto the next page
	havePartial bool
}

func newOggDemuxer(r io.Reader) *oggDemuxer {
	return &oggDemuxer{r: bufio.NewReaderSize(r, 2*oggMaxPageSize)}
}

// ReadPacket returns the next packet. It returns io.EOF after the
// end-of-stream page and ErrTruncatedStream if the data runs out first.
func (d *oggDemuxer) ReadPacket() ([]byte, error) {
	for len(d.queue) == 0 {
		if d.eos {
			return nil, io.EOF
		}
		if err := d.nextPage(); err != nil {
			return nil, err
		}
	}

	p := d.queue[0]
	d.queue = d.queue[1:]
	return p, nil
}

func (d *oggDemuxer) nextPage() error {
	page, err := d.readPage()
	if err != nil {
		return err
	}

	if !d.started {
		if !page.IsBOS() {
			return fmt.Errorf("%w: first page does not begin a stream", ogg.ErrInvalidPage)
		}
		d.serial = page.SerialNumber
		d.started = true
	} else if page.SerialNumber != d.serial {
		return nil
	}

	d.eos = page.IsEOS()
	d.split(page)
	return nil
}

// split appends the packets completed on page to the queue
func (d *oggDemuxer) split(page *ogg.Page) {
	if len(page.Segments) == 0 {
		return
	}

	var cur []byte
	// A continuation whose start was lost is dropped up to its end
	skipping := page.IsContinuation() && !d.havePartial
	if page.IsContinuation() && d.havePartial {
		cur = d.partial
	}

	off := 0
	for _, seg := range page.Segments {
		n := int(seg)
		if !skipping {
			cur = append(cur, page.Payload[off:off+n]...)
		}
		off += n
		if seg < 255 {
			if !skipping && len(cur) > 0 {
				d.queue = append(d.queue, cur)
			}
			cur = nil
			skipping = false
		}
	}

	d.havePartial = page.Segments[len(page.Segments)-1] == 255 && !skipping
	d.partial = cur
	if !d.havePartial {
		d.partial = nil
	}
}

func (d *oggDemuxer) readPage() (*ogg.Page, error) {
	header, err := d.peek(oggHeaderSize)
	if err != nil {
		return nil, err
	}
	if string(header[:4]) != oggCapture {
		return nil, fmt.Errorf("%w: missing capture pattern", ogg.ErrInvalidPage)
	}

	size := oggHeaderSize + int(header[26])
	segments, err := d.peek(size)
	if err != nil {
		return nil, err
	}
	for _, seg := range segments[oggHeaderSize:] {
		size += int(seg)
	}

	data, err := d.peek(size)
	if err != nil {
		return nil, err
	}

	index := d.pages
	d.pages++

	page, n, err := ogg.ParsePage(data)
	if errors.Is(err, ogg.ErrBadCRC) {
		d.resync()
		return nil, fmt.Errorf("page %d: %w", index, err)
	}
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", index, err)
	}

	if _, err := d.r.Discard(n); err != nil {
		return nil, err
	}
	return page, nil
}

// peek returns the next n bytes, mapping a short read to ErrTruncatedStream
func (d *oggDemuxer) peek(n int) ([]byte, error) {
	b, err := d.r.Peek(n)
	if errors.Is(err, io.EOF) {
		if !d.started && len(b) == 0 {
			return nil, fmt.Errorf("%w: empty stream", ogg.ErrInvalidPage)
		}
		return nil, ErrTruncatedStream
	}
	return b, err
}

// resync drops the page at the read position and skips to the next capture
// pattern. Any packet spanning the dropped page is lost.
func (d *oggDemuxer) resync() {
	d.partial = nil
	d.havePartial = false

	if _, err := d.r.Discard(1); err != nil {
		return
	}
	for {
		b, err := d.r.Peek(len(oggCapture))
		if err != nil || string(b) == oggCapture {
			return
		}
		if _, err := d.r.Discard(1); err != nil {
			return
		}
	}
}
