// ABOUTME: Entry point for the vagenc command
// ABOUTME: Parses CLI flags and runs the transcoder with a TUI or streaming logs
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vagcodec/vag-go/internal/transcode"
	"github.com/vagcodec/vag-go/internal/ui"
	"github.com/vagcodec/vag-go/internal/version"
	"github.com/vagcodec/vag-go/pkg/audio/decode"
	"github.com/vagcodec/vag-go/pkg/vag"
)

// logInterval is how many packets pass between progress lines without the TUI
const logInterval = 200

var errAborted = errors.New("aborted by user")

var (
	flagLoop         bool
	flagLoopStart    int
	flagLoopEnd      int
	flagHeader       bool
	flagName         string
	flagRate         int
	flagPacketFrames int
	flagMaxSkips     int

	flagRawRate     int
	flagRawChannels int
	flagRawBits     int
	flagToneFreq    float64
	flagToneSeconds float64

	flagLogFile string
	flagNoTUI   bool
	flagDebug   bool
)

var cmdRoot = cobra.Command{
	Use:   "vagenc <input> <output>",
	Short: "vagenc converts audio files to VAG ADPCM.",
	Long: `vagenc converts audio files to VAG ADPCM.

Input may be MP3, FLAC, Ogg Opus, Ogg Vorbis, WAV or raw PCM (.raw, .pcm),
chosen by extension, or "tone" for a generated test tone. Output "-" writes
the chunk stream to stdout.`,
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(_ *cobra.Command, args []string) error {
		return run(args[0], args[1])
	},
}

var cmdVersion = cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.String())
	},
}

func run(input, output string) error {
	// The TUI and the chunk stream cannot share stdout
	useTUI := !flagNoTUI && output != transcode.StdoutOutput

	// Set up logging
	f, err := os.OpenFile(flagLogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var logger *log.Logger
	if useTUI {
		// TUI mode: log only to file
		logger = log.New(f, "", log.LstdFlags)
	} else {
		// Streaming logs mode: log to both the console and file
		console := io.Writer(os.Stdout)
		if output == transcode.StdoutOutput {
			console = os.Stderr
		}
		logger = log.New(io.MultiWriter(console, f), "", log.LstdFlags)
	}

	logger.Printf("Starting %s: %s -> %s", version.String(), input, output)
	if flagDebug {
		logger.Printf("Debug logging enabled")
	}
	logger.Printf("Logging to: %s", flagLogFile)

	cfg := transcode.Config{
		Input:  input,
		Output: output,
		Source: decode.Options{
			PacketFrames:  flagPacketFrames,
			RawSampleRate: flagRawRate,
			RawChannels:   flagRawChannels,
			RawBitDepth:   flagRawBits,
			ToneFrequency: flagToneFreq,
			ToneDuration:  time.Duration(flagToneSeconds * float64(time.Second)),
		},
		SampleRate: flagRate,
		Loop: vag.Loop{
			Enabled: flagLoop,
			Start:   flagLoopStart,
			End:     flagLoopEnd,
		},
		WriteHeader:         flagHeader,
		Name:                flagName,
		MaxConsecutiveSkips: flagMaxSkips,
		Debug:               flagDebug,
		Logger:              logger,
	}

	if !useTUI {
		cfg.Reporter = transcode.NewLogReporter(logger, logInterval)
		_, err := transcode.Run(cfg)
		return err
	}

	progress := ui.NewProgressUI(input, output)
	cfg.Reporter = progress

	type outcome struct {
		res transcode.Result
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := transcode.Run(cfg)
		progress.Finish(res, err)
		done <- outcome{res, err}
	}()

	if err := progress.Start(); err != nil {
		logger.Printf("TUI error: %v", err)
		o := <-done
		return o.err
	}

	select {
	case o := <-done:
		return o.err
	case <-progress.QuitChan():
		logger.Printf("Transcode aborted, %s may be incomplete", output)
		return errAborted
	}
}

func main() {
	cmdRoot.AddCommand(&cmdVersion)

	fencode := pflag.NewFlagSet("encoding", pflag.ExitOnError)
	fencode.BoolVar(&flagLoop, "loop", false,
		"mark loop blocks and omit the end-of-playback chunk")
	fencode.IntVar(&flagLoopStart, "loop-start", 0,
		"block index within each packet where the loop starts")
	fencode.IntVar(&flagLoopEnd, "loop-end", 0,
		"block index within each packet where the loop ends")
	fencode.BoolVar(&flagHeader, "header", false,
		"write a 48-byte VAGp header (needs a file output)")
	fencode.StringVar(&flagName, "name", "",
		"name stored in the header, at most 16 bytes (default: input title)")
	fencode.IntVar(&flagRate, "rate", 0,
		"resample to this rate in Hz before encoding (default: keep source rate)")
	fencode.IntVar(&flagPacketFrames, "packet-frames", 0,
		"frames per packet for formats without natural packets (default: 1152 for MP3, 1024 otherwise)")
	fencode.IntVar(&flagMaxSkips, "max-skips", 0,
		"give up after this many undecodable packets in a row (default: never)")

	finput := pflag.NewFlagSet("input", pflag.ExitOnError)
	finput.IntVar(&flagRawRate, "raw-rate", 44100,
		"sample rate of raw PCM input")
	finput.IntVar(&flagRawChannels, "raw-channels", 2,
		"channel count of raw PCM input")
	finput.IntVar(&flagRawBits, "raw-bits", 16,
		"bit depth of raw PCM input, 16 or 24")
	finput.Float64Var(&flagToneFreq, "tone-freq", decode.DefaultToneFrequency,
		"test tone frequency in Hz")
	finput.Float64Var(&flagToneSeconds, "tone-seconds", decode.DefaultToneDuration.Seconds(),
		"test tone length in seconds")

	flog := pflag.NewFlagSet("logging", pflag.ExitOnError)
	flog.StringVar(&flagLogFile, "log-file", "vagenc.log",
		"log file path")
	flog.BoolVar(&flagNoTUI, "no-tui", false,
		"disable TUI, use streaming logs instead")
	flog.BoolVar(&flagDebug, "debug", false,
		"log every encoded packet")

	f := cmdRoot.Flags()
	f.AddFlagSet(fencode)
	f.AddFlagSet(finput)
	f.AddFlagSet(flog)

	if err := cmdRoot.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
