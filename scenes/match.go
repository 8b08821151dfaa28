package scenes

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"sync"

	"github.com/automoto/p2pong/components"
	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/network"
	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/loop"
	"github.com/automoto/p2pong/shared/pong"
	"github.com/automoto/p2pong/shared/replay"
	"github.com/automoto/p2pong/shared/rollback"
	"github.com/automoto/p2pong/systems"
	"github.com/automoto/p2pong/systems/factory"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// MatchOptions selects how a match is played.
type MatchOptions struct {
	Role       cfg.Role
	Player     int    // local paddle when online
	SessionID  string // generated when empty
	RecordPath string // replay written here when the match ends
	// ExitOnError makes a failed match fatal instead of returning to the menu.
	ExitOnError bool
}

// MatchScene runs one match. The simulation is ticked by a fixed-step driver;
// the ECS world only mirrors the blended state for drawing.
type MatchScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	opts         MatchOptions
	once         sync.Once

	driver   *loop.Driver
	sim      loop.Simulation
	session  *rollback.P2PSession
	peer     *network.Peer
	recorder *replay.Recorder
	display  *systems.Display

	lastErr error
	ended   bool
}

func NewMatchScene(sc SceneChanger, opts MatchOptions) *MatchScene {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	return &MatchScene{sceneChanger: sc, opts: opts}
}

func (ms *MatchScene) Update() {
	ms.once.Do(ms.configure)
	if ms.ended {
		return
	}
	if ms.lastErr != nil {
		ms.end(ms.lastErr.Error())
		return
	}

	// input systems and tweens
	ms.ecsWorld.Update()

	if in, ok := components.Input.First(ms.ecsWorld.World); ok {
		if components.Input.Get(in).State(cfg.ActionMenuBack).JustPressed {
			ms.end("")
			return
		}
	}

	game, err := ms.driver.Frame(ms.sim)
	if err != nil {
		log.Printf("[match] %v", err)
		ms.end(describe(err))
		return
	}
	ms.display.Render(game)

	if ms.session != nil {
		systems.SetNetStats(ms.ecsWorld, ms.session.CurrentFrame(), ms.session.FramesAhead(), ms.driver.Stalls(), ms.session.Ping())
		if ms.peer.State() == network.StateError {
			ms.end(ms.peer.LastError().Error())
		}
	}
}

func (ms *MatchScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if ms.ecsWorld == nil {
		return
	}
	ms.ecsWorld.Draw(screen)
}

func (ms *MatchScene) configure() {
	ms.ecsWorld = ecs.NewECS(donburi.NewWorld())
	ms.driver = loop.NewDriver(nil)
	ms.display = systems.NewDisplay(ms.ecsWorld)
	if ms.opts.RecordPath != "" {
		ms.recorder = replay.NewRecorder(ms.opts.SessionID)
	}

	local := ms.opts.Role == cfg.RoleLocal
	src := systems.NewKeyboardSource(ms.ecsWorld, local)
	var rec loop.InputRecorder
	if ms.recorder != nil {
		rec = ms.recorder
	}

	localPlayers := []int{pong.Player1, pong.Player2}
	if local {
		ms.sim = loop.NewLocalSimulation(src, rec)
	} else {
		localPlayers = []int{ms.opts.Player}
		if err := ms.startOnline(src, rec); err != nil {
			ms.lastErr = err
			ms.sim = loop.NewLocalSimulation(src, rec)
		}
	}

	factory.CreateMatch(ms.ecsWorld, ms.opts.Role, localPlayers, ms.sim.State())

	ms.ecsWorld.AddSystem(systems.UpdateInput)
	ms.ecsWorld.AddSystem(systems.UpdateNetStatus)
	ms.ecsWorld.AddSystem(systems.UpdateHUD)

	ms.ecsWorld.AddRenderer(cfg.Default, systems.DrawField)
	ms.ecsWorld.AddRenderer(cfg.Default, systems.DrawPaddles)
	ms.ecsWorld.AddRenderer(cfg.Default, systems.DrawBall)
	ms.ecsWorld.AddRenderer(cfg.LayerHUD, systems.DrawScoreboard)
	ms.ecsWorld.AddRenderer(cfg.LayerHUD, systems.DrawNetStatus)
}

func (ms *MatchScene) startOnline(src loop.InputSource, rec loop.InputRecorder) error {
	ms.peer = network.NewPeer()
	switch ms.opts.Role {
	case cfg.RoleHost:
		ms.peer.Host(cfg.Net.Port)
	case cfg.RoleJoin:
		ms.peer.Join(cfg.Net.PeerAddress)
	default:
		return fmt.Errorf("unknown role %q", ms.opts.Role)
	}

	blank := input.Encode(input.None)
	p2p := rollback.DefaultP2PConfig()
	p2p.LocalPlayer = ms.opts.Player
	p2p.InputDelay = cfg.Net.InputDelay
	p2p.MaxPrediction = cfg.Net.MaxPrediction
	p2p.ChecksumInterval = cfg.Net.ChecksumInterval
	p2p.QualityInterval = cfg.Net.QualityInterval
	p2p.DisconnectTimeout = cfg.Net.DisconnectTimeout
	p2p.SessionID = ms.opts.SessionID
	p2p.BlankInput = blank[:]

	session, err := rollback.NewP2PSession(p2p, ms.peer)
	if err != nil {
		ms.peer.Close()
		return err
	}
	ms.session = session

	sim := loop.NewSessionSimulation(session, src, rec)
	sim.OnEvent = ms.onEvent
	ms.sim = sim
	return nil
}

func (ms *MatchScene) onEvent(ev rollback.Event) {
	log.Printf("[session] %s", ev)
	systems.RecordSessionEvent(ms.ecsWorld, ev)
	switch ev.Kind {
	case rollback.EventDesync:
		ms.lastErr = fmt.Errorf("desync at frame %d", ev.Frame)
	case rollback.EventDisconnected:
		ms.lastErr = fmt.Errorf("peer disconnected: %s", ev.Reason)
	}
}

// end tears the match down and returns to the menu with status.
func (ms *MatchScene) end(status string) {
	ms.ended = true
	if ms.session != nil {
		ms.session.Close("left match")
	}
	if ms.peer != nil {
		ms.peer.Close()
	}
	ms.writeReplay()
	if status != "" && ms.opts.ExitOnError {
		log.Fatalf("[match] %s", status)
	}
	ms.sceneChanger.ChangeScene(NewMenuScene(ms.sceneChanger, status))
}

func (ms *MatchScene) writeReplay() {
	if ms.recorder == nil || ms.recorder.Len() == 0 {
		return
	}
	rec, err := ms.recorder.Finish(ms.sim.State())
	if err != nil {
		log.Printf("[match] replay not written: %v", err)
		return
	}
	if err := replay.WriteFile(ms.opts.RecordPath, rec); err != nil {
		log.Printf("[match] replay not written: %v", err)
		return
	}
	log.Printf("[match] replay of %d frames written to %s", len(rec.Frames), ms.opts.RecordPath)
}

func describe(err error) string {
	var mismatch *rollback.ChecksumMismatchError
	if errors.As(err, &mismatch) {
		return fmt.Sprintf("state mismatch at frame %d", mismatch.Frame)
	}
	return err.Error()
}
