// ABOUTME: Tests for chunk layout and flag assignment
// ABOUTME: Covers the flag table and chunk wire form
package vag

import (
	"testing"
)

func TestBlockFlag(t *testing.T) {
	loop := Loop{Enabled: true, Start: 2, End: 5}

	tests := []struct {
		name         string
		index        int
		last         bool
		loop         Loop
		expected     Flag
		expectedStop bool
	}{
		{"middle without loop", 3, false, Loop{}, FlagNothing, false},
		{"loop start", 2, false, loop, FlagLoopStart, false},
		{"loop end", 5, false, loop, FlagLoopEnd, true},
		{"inside loop", 3, false, loop, FlagLoopRegion, false},
		{"before loop start", 0, false, loop, FlagLoopRegion, false},
		{"last without loop", 7, true, Loop{}, FlagLoopLastBlock, false},
		{"last with loop", 7, true, loop, FlagLoopEnd, false},
		{"last at loop start", 2, true, loop, FlagLoopEnd, false},
		{"disabled loop ignores indices", 2, false, Loop{Start: 2, End: 5}, FlagNothing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag, stop := BlockFlag(tt.index, tt.last, tt.loop)
			if flag != tt.expected {
				t.Errorf("expected flag %v, got %v", tt.expected, flag)
			}
			if stop != tt.expectedStop {
				t.Errorf("expected stop %v, got %v", tt.expectedStop, stop)
			}
		})
	}
}

func TestFlagValues(t *testing.T) {
	tests := []struct {
		flag     Flag
		expected uint8
		name     string
	}{
		{FlagNothing, 0, "nothing"},
		{FlagLoopLastBlock, 1, "loop-last-block"},
		{FlagLoopRegion, 2, "loop-region"},
		{FlagLoopEnd, 3, "loop-end"},
		{FlagLoopFirstBlock, 4, "loop-first-block"},
		{FlagUnknown, 5, "unknown"},
		{FlagLoopStart, 6, "loop-start"},
		{FlagPlaybackEnd, 7, "playback-end"},
	}

	for _, tt := range tests {
		if uint8(tt.flag) != tt.expected {
			t.Errorf("%s: expected value %d, got %d", tt.name, tt.expected, uint8(tt.flag))
		}
		if tt.flag.String() != tt.name {
			t.Errorf("expected name %q, got %q", tt.name, tt.flag.String())
		}
	}

	if Flag(9).String() != "flag(9)" {
		t.Errorf("unexpected name for unknown flag: %q", Flag(9).String())
	}
}

func TestChunkBytes(t *testing.T) {
	c := Chunk{Header: 0x2B, Flag: FlagLoopStart}
	for i := range c.Payload {
		c.Payload[i] = byte(i + 1)
	}

	b := c.Bytes()
	if b[0] != 0x2B || b[1] != 6 {
		t.Errorf("unexpected header bytes % x", b[:2])
	}
	for i := 0; i < PayloadBytes; i++ {
		if b[2+i] != byte(i+1) {
			t.Errorf("payload byte %d: expected %d, got %d", i, i+1, b[2+i])
		}
	}

	if c.Predictor() != 2 || c.Shift() != 11 {
		t.Errorf("expected predictor 2 shift 11, got %d %d", c.Predictor(), c.Shift())
	}

	parsed, err := ParseChunk(b[:])
	if err != nil {
		t.Fatalf("ParseChunk() failed: %v", err)
	}
	if parsed != c {
		t.Errorf("parsed chunk %+v differs from %+v", parsed, c)
	}
}

func TestParseChunk_Short(t *testing.T) {
	_, err := ParseChunk(make([]byte, 10))
	if err == nil {
		t.Fatal("expected error for short chunk, got nil")
	}

	expectedError := "short chunk: 10 bytes (need 16)"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}
