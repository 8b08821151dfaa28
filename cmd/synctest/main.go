// Command synctest checks the simulation for determinism. It plays a match with
// seeded random inputs under a sync-test session, which re-simulates every frame
// from an earlier snapshot and fails on the first checksum difference.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/loop"
	"github.com/automoto/p2pong/shared/replay"
	"github.com/automoto/p2pong/shared/rollback"
	"github.com/ttacon/chalk"
)

// randomInput holds each random input for a few frames, like a person would.
type randomInput struct {
	rng  *rand.Rand
	held [rollback.NumPlayers]input.Input
	left [rollback.NumPlayers]int
}

func newRandomInput(seed uint64) *randomInput {
	return &randomInput{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *randomInput) Poll(player int) input.Input {
	if r.left[player] == 0 {
		r.held[player] = input.Input(r.rng.IntN(3))
		r.left[player] = 1 + r.rng.IntN(20)
	}
	r.left[player]--
	return r.held[player]
}

func main() {
	frames := flag.Int("frames", 3600, "Frames to simulate")
	distance := flag.Int("distance", 7, "Frames re-simulated on every tick")
	seed := flag.Uint64("seed", 1, "Seed for the random inputs")
	record := flag.String("record", "", "Write the inputs of the run to this replay file")
	verify := flag.String("verify", "", "Re-simulate this replay file instead of running a sync test")
	flag.Parse()

	if *verify != "" {
		os.Exit(verifyReplay(*verify))
	}
	os.Exit(syncTest(*frames, *distance, *seed, *record))
}

func syncTest(frames, distance int, seed uint64, record string) int {
	session := rollback.NewSyncTestSession(distance)
	recorder := replay.NewRecorder(fmt.Sprintf("synctest-%d", seed))
	sim := loop.NewSessionSimulation(session, newRandomInput(seed), recorder)

	for sim.State().Frame < rollback.Frame(frames) {
		if err := sim.Tick(); err != nil {
			var mismatch *rollback.ChecksumMismatchError
			if errors.As(err, &mismatch) {
				fail("frame %d re-simulated to %04x, first run was %04x", mismatch.Frame, mismatch.Resimmed, mismatch.First)
			} else {
				fail("%v", err)
			}
			return 1
		}
	}

	final := sim.State()
	if record != "" {
		rec, err := recorder.Finish(final)
		if err != nil {
			fail("finish replay: %v", err)
			return 1
		}
		if err := replay.WriteFile(record, rec); err != nil {
			fail("%v", err)
			return 1
		}
		log.Printf("[synctest] replay written to %s", record)
	}

	pass("%d frames, check distance %d, seed %d, score %d-%d", final.Frame, distance, seed, final.Scores[0], final.Scores[1])
	return 0
}

func verifyReplay(path string) int {
	rec, err := replay.ReadFile(path)
	if err != nil {
		fail("%v", err)
		return 1
	}
	if err := replay.Verify(rec); err != nil {
		fail("%v", err)
		return 1
	}
	pass("%s: %d frames, final checksum %04x", path, len(rec.Frames), rec.FinalChecksum)
	return 0
}

func pass(format string, args ...any) {
	fmt.Println(chalk.Green, "PASS", chalk.Reset, fmt.Sprintf(format, args...))
}

func fail(format string, args ...any) {
	fmt.Println(chalk.Red, "FAIL", chalk.Reset, fmt.Sprintf(format, args...))
}
