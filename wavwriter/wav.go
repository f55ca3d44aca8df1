// This file is part of Vitimer.
//
// Vitimer is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Vitimer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Vitimer.  If not, see <https://www.gnu.org/licenses/>.

// Package wavwriter writes a click track of the video interrupt as a WAV
// file. One sample is produced for every audio interrupt and a click is
// started on every video interrupt. Listening to the result, or viewing it in
// a waveform editor, shows the relationship between the two interrupts.
//
// Audio data is buffered in memory in its entirety and written to disk when
// EndMixing() is called. It is therefore only suitable for testing purposes.
package wavwriter

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/vitimer/logger"
)

const (
	bitDepth    = 16
	numChannels = 1

	// PCM format in the WAV header
	formatPCM = 1

	// amplitude of the start of a click
	clickAmplitude = math.MaxInt16
)

// WavWriter collects samples from the audio interrupt.
type WavWriter struct {
	filename   string
	sampleRate int
	buffer     []int

	// the amplitude of the next sample. halved for every sample so that each
	// click decays quickly
	level int
}

// New is the preferred method of initialisation for the WavWriter type. The
// sample rate should be the rate of the audio interrupt.
func New(filename string, sampleRate float64) (*WavWriter, error) {
	rate := int(math.Round(sampleRate))
	if rate <= 0 {
		return nil, fmt.Errorf("wavwriter: sample rate must be positive (%v)", sampleRate)
	}

	return &WavWriter{
		filename:   filename,
		sampleRate: rate,
		buffer:     make([]int, 0, rate),
	}, nil
}

func (aw *WavWriter) String() string {
	return fmt.Sprintf("%s: %d samples at %dHz", aw.filename, len(aw.buffer), aw.sampleRate)
}

// Click starts a new click. Suitable for use as the callback for the video
// interrupt.
func (aw *WavWriter) Click() {
	aw.level = clickAmplitude
}

// Sample adds the next sample to the audio data. Suitable for use as the
// callback for the audio interrupt.
func (aw *WavWriter) Sample() {
	aw.buffer = append(aw.buffer, aw.level)
	aw.level /= 2
}

// Len returns the number of samples collected.
func (aw *WavWriter) Len() int {
	return len(aw.buffer)
}

// EndMixing writes the audio data to disk.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.sampleRate, bitDepth, numChannels, formatPCM)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	return nil
}

// Reset discards all audio data.
func (aw *WavWriter) Reset() {
	aw.buffer = aw.buffer[:0]
	aw.level = 0
}
