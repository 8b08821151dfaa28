package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/p2pong/server/core"
)

func main() {
	defaults := core.DefaultBotPeerConfig()

	port := flag.Uint("port", defaults.Port, "Port to host the match on")
	player := flag.Int("player", defaults.Player, "Paddle the bot plays (0 left, 1 right)")
	difficulty := flag.String("difficulty", "normal", "Bot difficulty: easy, normal or hard")
	delay := flag.Int("delay", defaults.Session.InputDelay, "Input delay in frames")
	maxPrediction := flag.Int("maxprediction", defaults.Session.MaxPrediction, "Frames the session may run ahead of confirmed input")
	timeout := flag.Duration("timeout", defaults.Session.DisconnectTimeout, "Silence before the peer counts as gone")
	pollRate := flag.Int("pollrate", defaults.PollRate, "Game loop polls per second")
	record := flag.String("record", "", "Write a replay of the match to this file")
	flag.Parse()

	diff, ok := core.ParseDifficulty(*difficulty)
	if !ok {
		log.Fatalf("Unknown difficulty %q", *difficulty)
	}

	cfg := defaults
	cfg.Port = *port
	cfg.Player = *player
	cfg.Difficulty = diff
	cfg.PollRate = *pollRate
	cfg.RecordPath = *record
	cfg.Session.InputDelay = *delay
	cfg.Session.MaxPrediction = *maxPrediction
	cfg.Session.DisconnectTimeout = *timeout

	bot, err := core.NewBotPeer(cfg)
	if err != nil {
		log.Fatalf("Bot error: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("Starting p2pong bot on port %d (difficulty: %s, delay: %d)", *port, *difficulty, *delay)
	bot.Start()

	status := time.NewTicker(10 * time.Second)
	defer status.Stop()

	for {
		select {
		case <-sigChan:
			log.Println("Shutting down bot...")
			if err := bot.Stop(); err != nil {
				log.Printf("Replay error: %v", err)
			}
			os.Exit(0)
		case <-bot.Done():
			stopErr := bot.Stop()
			if stopErr != nil {
				log.Printf("Replay error: %v", stopErr)
			}
			if err := bot.Err(); err != nil && !core.IsDisconnect(err) {
				log.Fatalf("Bot error: %v", err)
			}
			log.Println("Match over")
			return
		case <-status.C:
			frame, stalls, ping := bot.Stats()
			log.Printf("[bot] frame %d, stalls %d, ping %s", frame, stalls, ping.Round(time.Millisecond))
		}
	}
}
