package config

import "time"

// SoundID represents a logical sound effect
type SoundID int

const (
	SoundNone SoundID = iota
	SoundPaddle
	SoundWall
	SoundScore
)

// Tone is a synthesized blip.
type Tone struct {
	Frequency float64
	Duration  time.Duration
}

// AudioConfig contains audio-related configuration values
type AudioConfig struct {
	SampleRate    int
	DefaultSFXVol float64
	Muted         bool
}

// SoundConfig maps sound IDs to the tone played for them
type SoundConfig struct {
	Tones             map[SoundID]Tone
	VolumeMultipliers map[SoundID]float64
}

var Audio AudioConfig
var Sound SoundConfig

func init() {
	Audio = AudioConfig{
		SampleRate:    44100,
		DefaultSFXVol: 0.4,
	}

	Sound = SoundConfig{
		Tones: map[SoundID]Tone{
			SoundPaddle: {Frequency: 440, Duration: 60 * time.Millisecond},
			SoundWall:   {Frequency: 220, Duration: 50 * time.Millisecond},
			SoundScore:  {Frequency: 660, Duration: 250 * time.Millisecond},
		},
		VolumeMultipliers: map[SoundID]float64{
			SoundScore: 1.25,
		},
	}
}
