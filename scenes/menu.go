package scenes

import (
	"image/color"
	"sync"

	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/systems"
	"github.com/automoto/p2pong/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneChanger allows scenes to trigger transitions
type SceneChanger interface {
	ChangeScene(scene interface{})
	Quit()
}

// MenuScene is the connect screen shown before every match.
type MenuScene struct {
	sceneChanger SceneChanger
	connectUI    *ui.ConnectUI
	status       string
	once         sync.Once
}

// NewMenuScene creates a menu scene. A non-empty status, e.g. the reason the
// previous match ended, is shown under the form.
func NewMenuScene(sc SceneChanger, status string) *MenuScene {
	return &MenuScene{sceneChanger: sc, status: status}
}

func (ms *MenuScene) Update() {
	ms.once.Do(ms.configure)
	ms.connectUI.Update()
}

func (ms *MenuScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)

	if ms.connectUI == nil {
		return
	}
	ms.connectUI.UI.Draw(screen)
}

func (ms *MenuScene) configure() {
	initial := ui.ConnectOptions{
		Role:            cfg.RoleLocal,
		PeerAddress:     cfg.Net.PeerAddress,
		Port:            cfg.Net.Port,
		InputDelay:      cfg.Net.InputDelay,
		ResolutionIndex: cfg.SettingsMenu.DefaultResolutionIndex,
	}
	if saved, err := systems.LoadSettings(); err == nil && saved != nil {
		initial.Role = saved.Role
		initial.Player = saved.Player
		initial.ResolutionIndex = saved.ResolutionIndex
	}

	ms.connectUI = ui.NewConnectUI(initial, ms.start, ms.sceneChanger.Quit)
	ms.connectUI.SetStatus(ms.status)
}

func (ms *MenuScene) start(opts ui.ConnectOptions) {
	settings := &systems.SavedSettings{
		Role:            opts.Role,
		PeerAddress:     opts.PeerAddress,
		Port:            opts.Port,
		Player:          opts.Player,
		InputDelay:      opts.InputDelay,
		ResolutionIndex: opts.ResolutionIndex,
	}
	systems.ApplySavedSettings(settings)
	_ = systems.SaveSettings(settings)

	ms.sceneChanger.ChangeScene(NewMatchScene(ms.sceneChanger, MatchOptions{
		Role:       opts.Role,
		Player:     opts.Player,
		RecordPath: cfg.Debug.RecordPath,
	}))
}
