package systems

import (
	"fmt"
	"sync"

	"github.com/automoto/p2pong/assets"
	cfg "github.com/automoto/p2pong/config"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Global audio state - created once and shared across all scenes
var (
	globalAudioContext *audio.Context
	globalAudioLoader  *assets.AudioLoader
	audioInitOnce      sync.Once
)

func soundName(id cfg.SoundID) string {
	return fmt.Sprintf("sfx-%d", id)
}

// initGlobalAudio creates the audio context and synthesizes every effect once
func initGlobalAudio() {
	audioInitOnce.Do(func() {
		globalAudioContext = audio.NewContext(cfg.Audio.SampleRate)
		globalAudioLoader = assets.NewAudioLoader(globalAudioContext)
		for id, tone := range cfg.Sound.Tones {
			globalAudioLoader.PreloadTone(soundName(id), tone.Frequency, tone.Duration)
		}
	})
}

// PlaySFX plays a sound effect at the configured volume
func PlaySFX(soundID cfg.SoundID) {
	if cfg.Audio.Muted || soundID == cfg.SoundNone {
		return
	}
	initGlobalAudio()

	player, err := globalAudioLoader.LoadSFX(soundName(soundID))
	if err != nil {
		return
	}

	volume := cfg.Audio.DefaultSFXVol
	if mult, ok := cfg.Sound.VolumeMultipliers[soundID]; ok {
		volume *= mult
	}

	player.SetVolume(volume)
	player.Play()
}
