// Package assets generates the game's sound effects. There are no asset files:
// every effect is a short square-wave tone synthesized at startup.
package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioLoader handles synthesis and caching of audio assets
type AudioLoader struct {
	sfxCache map[string][]byte // PCM bytes per effect
	context  *audio.Context
}

// NewAudioLoader creates a new audio loader with the given context
func NewAudioLoader(ctx *audio.Context) *AudioLoader {
	return &AudioLoader{
		sfxCache: make(map[string][]byte),
		context:  ctx,
	}
}

// PreloadTone synthesizes a tone and caches it under name.
func (l *AudioLoader) PreloadTone(name string, frequency float64, duration time.Duration) {
	if _, ok := l.sfxCache[name]; ok {
		return
	}
	l.sfxCache[name] = SynthesizeTone(l.context.SampleRate(), frequency, duration)
}

// LoadSFX returns a new player for a preloaded effect.
func (l *AudioLoader) LoadSFX(name string) (*audio.Player, error) {
	pcm, ok := l.sfxCache[name]
	if !ok {
		return nil, fmt.Errorf("sound effect %s not loaded", name)
	}
	return l.context.NewPlayer(bytes.NewReader(pcm))
}

// SynthesizeTone renders a square wave with a linear fade out as 16-bit signed
// little-endian stereo PCM, the format audio.Context expects.
func SynthesizeTone(sampleRate int, frequency float64, duration time.Duration) []byte {
	samples := int(float64(sampleRate) * duration.Seconds())
	if samples <= 0 || frequency <= 0 {
		return nil
	}
	period := float64(sampleRate) / frequency
	pcm := make([]byte, samples*4)
	const amplitude = 0.3 * 32767

	for i := 0; i < samples; i++ {
		fade := 1 - float64(i)/float64(samples)
		v := amplitude * fade
		if int(float64(i)/(period/2))%2 == 1 {
			v = -v
		}
		s := uint16(int16(v))
		binary.LittleEndian.PutUint16(pcm[i*4:], s)
		binary.LittleEndian.PutUint16(pcm[i*4+2:], s)
	}
	return pcm
}
