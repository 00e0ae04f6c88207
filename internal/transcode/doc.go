// Package transcode drives a decode.Source through the VAG encoder into a
// file or stdout, with optional resampling, a VAGp header and progress
// reporting.
package transcode
