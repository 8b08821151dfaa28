package systems

import (
	"encoding/json"
	"log"

	cfg "github.com/automoto/p2pong/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata"
)

// SavedSettings represents the settings data stored on disk
type SavedSettings struct {
	Role            cfg.Role `json:"role"`
	PeerAddress     string   `json:"peerAddress"`
	Port            uint     `json:"port"`
	Player          int      `json:"player"`
	InputDelay      int      `json:"inputDelay"`
	ResolutionIndex int      `json:"resolutionIndex"`
}

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "p2pong",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// DefaultSettings reflects the compiled-in configuration.
func DefaultSettings() *SavedSettings {
	return &SavedSettings{
		Role:            cfg.RoleLocal,
		PeerAddress:     cfg.Net.PeerAddress,
		Port:            cfg.Net.Port,
		InputDelay:      cfg.Net.InputDelay,
		ResolutionIndex: cfg.SettingsMenu.DefaultResolutionIndex,
	}
}

// LoadSettings loads settings from disk. It returns nil when nothing was saved.
func LoadSettings() (*SavedSettings, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem("settings")
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return nil, nil
	}
	if data == nil {
		// No saved settings yet, use defaults
		return nil, nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return nil, err
	}

	return &settings, nil
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("Warning: Could not serialize settings: %v", err)
		return err
	}

	if err := gdataManager.SaveItem("settings", data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

// ApplySavedSettings applies loaded settings to the global configuration and
// the window.
func ApplySavedSettings(saved *SavedSettings) {
	if saved == nil {
		return
	}
	if saved.PeerAddress != "" {
		cfg.Net.PeerAddress = saved.PeerAddress
	}
	if saved.Port != 0 {
		cfg.Net.Port = saved.Port
	}
	cfg.Net.InputDelay = saved.InputDelay

	if saved.ResolutionIndex >= 0 && saved.ResolutionIndex < len(cfg.SettingsMenu.Resolutions) {
		res := cfg.SettingsMenu.Resolutions[saved.ResolutionIndex]
		ebiten.SetWindowSize(res.Width, res.Height)
	}
}
