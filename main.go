package main

import (
	"flag"
	"image"
	"log"

	"github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/fonts"
	"github.com/automoto/p2pong/scenes"
	"github.com/automoto/p2pong/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
	quit   bool
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

// Quit ends the game after the current update.
func (g *Game) Quit() {
	g.quit = true
}

func NewGame(start *scenes.MatchOptions) *Game {
	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	g := &Game{
		bounds: image.Rectangle{},
	}

	if start != nil {
		g.scene = scenes.NewMatchScene(g, *start)
	} else {
		g.scene = scenes.NewMenuScene(g, "")
	}

	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	role := flag.String("role", "", "local, host or join (empty opens the menu)")
	peer := flag.String("peer", config.Net.PeerAddress, "Address of the host to join")
	port := flag.Uint("port", config.Net.Port, "Port to host on")
	delay := flag.Int("delay", config.Net.InputDelay, "Input delay in frames")
	player := flag.Int("player", 0, "Paddle controlled by this machine online (0 left, 1 right)")
	record := flag.String("record", "", "Write a replay of the match to this file")
	mute := flag.Bool("mute", false, "Disable sound effects")
	flag.Parse()

	config.Debug.RecordPath = *record
	config.Audio.Muted = *mute

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle(config.C.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)
	// The loop driver paces the simulation; Update runs once per displayed frame.
	ebiten.SetTPS(ebiten.SyncWithFPS)

	// Initialize persistence and load saved settings
	if err := systems.InitPersistence(); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	if saved, err := systems.LoadSettings(); err == nil && saved != nil {
		systems.ApplySavedSettings(saved)
	}
	// flags the user passed win over saved settings; defaults do not
	applyNetFlags(flag.CommandLine, &config.Net, *peer, *port, *delay)

	var start *scenes.MatchOptions
	if *role != "" {
		r := config.Role(*role)
		switch r {
		case config.RoleLocal, config.RoleHost, config.RoleJoin:
		default:
			log.Fatalf("Unknown role %q", *role)
		}
		if *player != 0 && *player != 1 {
			log.Fatalf("Player must be 0 or 1, got %d", *player)
		}
		start = &scenes.MatchOptions{
			Role:        r,
			Player:      *player,
			RecordPath:  *record,
			ExitOnError: true,
		}
	}

	if err := ebiten.RunGame(NewGame(start)); err != nil {
		log.Fatal(err)
	}
}

// applyNetFlags copies only the network flags that were set on the command line.
func applyNetFlags(fs *flag.FlagSet, net *config.NetConfig, peer string, port uint, delay int) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "peer":
			net.PeerAddress = peer
		case "port":
			net.Port = port
		case "delay":
			net.InputDelay = delay
		}
	})
}
