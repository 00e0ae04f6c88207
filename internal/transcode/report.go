// ABOUTME: Progress reporting for the transcoder
// ABOUTME: Progress snapshots, the Reporter interface and a log-based reporter
package transcode

import (
	"log"

	"github.com/vagcodec/vag-go/pkg/audio"
)

// Progress is a snapshot of a running transcode
type Progress struct {
	Title       string
	Format      audio.Format
	Packets     int
	Skipped     int
	Chunks      int
	Bytes       int64
	FramesDone  int64
	FramesTotal int64 // 0 when the source length is unknown
	Done        bool
}

// Fraction returns how much of the source has been encoded, or -1 if unknown
func (p Progress) Fraction() float64 {
	if p.FramesTotal <= 0 {
		return -1
	}
	f := float64(p.FramesDone) / float64(p.FramesTotal)
	if f > 1 {
		f = 1
	}
	return f
}

// Reporter receives progress snapshots. Report is called from the encoding
// goroutine and must not block.
type Reporter interface {
	Report(Progress)
}

type nopReporter struct{}

func (nopReporter) Report(Progress) {}

// LogReporter logs progress every Interval packets and once when done
type LogReporter struct {
	Logger   *log.Logger
	Interval int
}

// NewLogReporter creates a reporter that logs every interval packets
func NewLogReporter(logger *log.Logger, interval int) *LogReporter {
	return &LogReporter{Logger: logger, Interval: interval}
}

func (r *LogReporter) Report(p Progress) {
	if !p.Done && (r.Interval <= 0 || p.Packets%r.Interval != 0) {
		return
	}

	status := "Progress"
	if p.Done {
		status = "Finished"
	}

	if f := p.Fraction(); f >= 0 && !p.Done {
		r.Logger.Printf("%s: %s %.1f%% (packets: %d, skipped: %d, chunks: %d, bytes: %d)",
			status, p.Title, f*100, p.Packets, p.Skipped, p.Chunks, p.Bytes)
		return
	}
	r.Logger.Printf("%s: %s (packets: %d, skipped: %d, chunks: %d, bytes: %d)",
		status, p.Title, p.Packets, p.Skipped, p.Chunks, p.Bytes)
}
