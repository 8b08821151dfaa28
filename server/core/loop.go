package core

import (
	"log"
	"sync"
	"time"
)

// GameLoop calls tick at a fixed polling rate until stopped. Simulation pacing
// is left to the loop.Driver inside tick, so the polling rate only bounds how
// late a tick can run.
type GameLoop struct {
	tick     func()
	tickRate int
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewGameLoop(tick func(), tickRate int) *GameLoop {
	return &GameLoop{
		tick:     tick,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	defer close(g.done)
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("[bot] game loop started at %d polls/second", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			log.Println("[bot] game loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// Halt asks Run to return without waiting for it. Safe to call from tick.
func (g *GameLoop) Halt() {
	g.stopOnce.Do(func() { close(g.stopChan) })
}

// Stop ends Run and waits for the current tick to finish.
func (g *GameLoop) Stop() {
	g.Halt()
	<-g.done
}

// Done is closed once Run has returned.
func (g *GameLoop) Done() <-chan struct{} {
	return g.done
}
