package config

import (
	"image/color"
	"time"

	"github.com/automoto/p2pong/shared/pong"
	"github.com/automoto/p2pong/shared/rollback"
)

// Config holds general game configuration
type Config struct {
	Width  int
	Height int
	Title  string
}

// NetConfig holds rollback and transport settings. Flags override the defaults.
type NetConfig struct {
	Port              uint
	PeerAddress       string
	InputDelay        int
	MaxPrediction     int
	ChecksumInterval  int
	QualityInterval   int
	DisconnectTimeout time.Duration
}

// HUDConfig tunes the score and network overlays.
type HUDConfig struct {
	ScoreY           int
	ScoreOffsetX     int
	ScorePopHeight   float32 // pixels the score jumps when it changes
	ScorePopDuration float32 // seconds
	ServeFlashTime   float32 // seconds the centre line flashes after a point
	CenterDash       float32
	ShowNetStatus    bool
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	RecordPath string // write a replay when the match ends
}

// Global configuration instances
var C *Config
var Net NetConfig
var HUD HUDConfig
var Debug DebugConfig

// Shared RGBA color constants
var (
	Background   = color.RGBA{R: 12, G: 12, B: 20, A: 255}
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Dim          = color.RGBA{R: 90, G: 90, B: 110, A: 255}
	BrightYellow = color.RGBA{R: 255, G: 255, B: 100, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	LightBlue    = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

// PlayerColors indexed by player
var PlayerColors = [2]color.RGBA{LightBlue, BrightYellow}

func init() {
	C = &Config{
		Width:  int(pong.ScreenWidth),
		Height: int(pong.ScreenHeight),
		Title:  "p2pong",
	}

	defaults := rollback.DefaultP2PConfig()
	Net = NetConfig{
		Port:              7373,
		PeerAddress:       "localhost:7373",
		InputDelay:        defaults.InputDelay,
		MaxPrediction:     defaults.MaxPrediction,
		ChecksumInterval:  defaults.ChecksumInterval,
		QualityInterval:   defaults.QualityInterval,
		DisconnectTimeout: defaults.DisconnectTimeout,
	}

	HUD = HUDConfig{
		ScoreY:           48,
		ScoreOffsetX:     60,
		ScorePopHeight:   12,
		ScorePopDuration: 0.35,
		ServeFlashTime:   0.5,
		CenterDash:       10,
		ShowNetStatus:    true,
	}
}
