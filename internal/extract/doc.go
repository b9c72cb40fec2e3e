// Package extract captures metadata for audio files. Fast mode parses
// artist/title out of the filename alone; full mode additionally reads the
// embedded tags and probes audio properties (bitrate, duration, sample rate).
package extract
