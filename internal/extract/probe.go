package extract

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
)

// probeMP3 locates the first MPEG frame header and fills bitrate, sample
// rate, and a size-based duration estimate.
func probeMP3(file *catalog.File) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	var audioStart int64
	header := make([]byte, 10)
	if _, err := io.ReadFull(f, header); err != nil {
		return err
	}
	if string(header[0:3]) == "ID3" {
		tagSize := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
		audioStart = 10 + tagSize
	}
	if _, err := f.Seek(audioStart, io.SeekStart); err != nil {
		return err
	}

	frame := make([]byte, 4)
	for i := 0; i < 10000; i++ {
		if _, err := io.ReadFull(f, frame); err != nil {
			return fmt.Errorf("no mp3 frame header found: %w", err)
		}
		if frame[0] == 0xFF && frame[1]&0xE0 == 0xE0 {
			version := (frame[1] >> 3) & 0x03
			layer := (frame[1] >> 1) & 0x03
			bitrateIdx := (frame[2] >> 4) & 0x0F
			sampleRateIdx := (frame[2] >> 2) & 0x03

			sampleRates := [4][3]int{
				{11025, 12000, 8000},  // MPEG 2.5
				{0, 0, 0},             // reserved
				{22050, 24000, 16000}, // MPEG 2
				{44100, 48000, 32000}, // MPEG 1
			}
			if sampleRateIdx < 3 {
				file.SampleRate = sampleRates[version][sampleRateIdx]
			}

			if version == 3 && layer == 1 { // MPEG 1 Layer 3
				bitrates := [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
				file.Bitrate = bitrates[bitrateIdx]
			}

			if file.Bitrate > 0 {
				audioSize := file.Size - audioStart - 128 // trailing ID3v1
				if audioSize > 0 {
					file.DurationSeconds = float64(audioSize*8) / float64(file.Bitrate*1000)
				}
			}
			return nil
		}
		if _, err := f.Seek(-3, io.SeekCurrent); err != nil {
			return err
		}
	}
	return fmt.Errorf("no mp3 frame header in first 10KB")
}

// probeFLAC parses the STREAMINFO block for sample rate and duration, then
// derives an average bitrate from the file size.
func probeFLAC(file *catalog.File) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	marker := make([]byte, 4)
	if _, err := io.ReadFull(f, marker); err != nil {
		return err
	}
	if string(marker) != "fLaC" {
		return fmt.Errorf("missing fLaC marker")
	}

	blockHeader := make([]byte, 4)
	for {
		if _, err := io.ReadFull(f, blockHeader); err != nil {
			return err
		}
		blockType := blockHeader[0] & 0x7F
		last := blockHeader[0]&0x80 != 0
		length := int(blockHeader[1])<<16 | int(blockHeader[2])<<8 | int(blockHeader[3])

		if blockType == 0 { // STREAMINFO
			if length < 34 {
				return fmt.Errorf("short streaminfo block")
			}
			info := make([]byte, 34)
			if _, err := io.ReadFull(f, info); err != nil {
				return err
			}

			// Bytes 10-17: sample rate (20 bits), channels (3), bits per
			// sample (5), total samples (36).
			file.SampleRate = int(info[10])<<12 | int(info[11])<<4 | int(info[12])>>4
			totalSamples := int64(info[13]&0x0F)<<32 |
				int64(info[14])<<24 | int64(info[15])<<16 | int64(info[16])<<8 | int64(info[17])

			if file.SampleRate > 0 && totalSamples > 0 {
				file.DurationSeconds = float64(totalSamples) / float64(file.SampleRate)
				file.Bitrate = int(float64(file.Size*8) / file.DurationSeconds / 1000)
			}
			return nil
		}

		if _, err := f.Seek(int64(length), io.SeekCurrent); err != nil {
			return err
		}
		if last {
			return fmt.Errorf("no streaminfo block")
		}
	}
}

// probeWAV reads the fmt chunk for sample rate and byte rate.
func probeWAV(file *catalog.File) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	riff := make([]byte, 12)
	if _, err := io.ReadFull(f, riff); err != nil {
		return err
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return fmt.Errorf("not a RIFF/WAVE file")
	}

	chunkHeader := make([]byte, 8)
	for {
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			return fmt.Errorf("no fmt chunk: %w", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunkHeader[4:8]))

		if chunkID == "fmt " {
			if chunkSize < 16 {
				return fmt.Errorf("short fmt chunk")
			}
			fmtData := make([]byte, 16)
			if _, err := io.ReadFull(f, fmtData); err != nil {
				return err
			}
			file.SampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			byteRate := int64(binary.LittleEndian.Uint32(fmtData[8:12]))
			if byteRate > 0 {
				file.Bitrate = int(byteRate * 8 / 1000)
				file.DurationSeconds = float64(file.Size-44) / float64(byteRate)
			}
			return nil
		}

		if _, err := f.Seek(chunkSize+chunkSize%2, io.SeekCurrent); err != nil {
			return err
		}
	}
}
