// ABOUTME: Audio source package for multiple input formats
// ABOUTME: Provides the packet Source interface and file and tone sources
// Package decode turns audio files into packets of 16-bit PCM.
//
// Supports: MP3, FLAC, Ogg Opus, Ogg Vorbis, WAV, raw PCM (16-bit and
// 24-bit) and a generated test tone.
//
// Packet boundaries follow the format: one FLAC frame or one Opus packet per
// packet, fixed-size packets for everything else. A packet that fails to
// decode is reported as *PacketError and reading can continue.
//
// Example:
//
//	src, err := decode.Open("music.flac", decode.Options{})
//	defer src.Close()
//	for {
//	    packet, err := src.ReadPacket()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package decode
