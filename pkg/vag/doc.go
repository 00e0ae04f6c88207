// ABOUTME: VAG ADPCM encoder package
// ABOUTME: Block encoder, stream encoder and chunk/header layout
// Package vag encodes 16-bit PCM into VAG block ADPCM.
//
// Every 28 input samples become one 16-byte chunk:
//   - byte 0: predictor index (high nibble) and shift (low nibble)
//   - byte 1: Flag
//   - bytes 2-15: 28 packed 4-bit codes, low nibble first
//
// Input arrives in packets. Each packet is split into blocks on its own,
// padded with zeros at its end, and encoded with fresh prediction history.
// A non-looping stream ends with a PlaybackEnd chunk.
//
// Example:
//
//	enc := vag.NewEncoder(w)
//	for packet := range packets {
//	    if _, err := enc.EncodePacket(packet, vag.Loop{}); err != nil {
//	        return err
//	    }
//	}
//	_, err := enc.EncodeEnding(false)
//
// The encoder writes bare chunks. FileHeader describes the optional VAGp
// container header.
package vag
