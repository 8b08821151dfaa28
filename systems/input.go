package systems

import (
	"github.com/automoto/p2pong/components"
	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/shared/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// Reusable slice for gamepad IDs to avoid allocations
var gamepadIDs []ebiten.GamepadID

// UpdateInput polls raw input and updates the InputComponent.
// Must run BEFORE the match system ticks the simulation.
func UpdateInput(ecs *ecs.ECS) {
	in := getOrCreateInput(ecs)

	// Swap buffers: current becomes previous, then zero out current
	in.Previous = in.Current
	in.Current = [cfg.ActionCount]bool{}

	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])

	for actionID, binding := range cfg.Input.Bindings {
		for _, key := range binding.Keys {
			if ebiten.IsKeyPressed(key) {
				in.Current[actionID] = true
			}
		}
		for _, gpID := range gamepadIDs {
			if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
				continue
			}
			for _, btn := range binding.StandardGamepadButtons {
				if ebiten.IsStandardGamepadButtonPressed(gpID, btn) {
					in.Current[actionID] = true
				}
			}
		}
	}

	// Left stick drives the left-side actions
	up, down := getAnalogStickState(gamepadIDs)
	in.Current[cfg.ActionLeftUp] = in.Current[cfg.ActionLeftUp] || up
	in.Current[cfg.ActionLeftDown] = in.Current[cfg.ActionLeftDown] || down
}

// getAnalogStickState reads the vertical left stick axis of every gamepad.
func getAnalogStickState(gamepads []ebiten.GamepadID) (up, down bool) {
	deadzone := cfg.Input.AnalogDeadzone
	for _, gpID := range gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}
		vertical := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickVertical)
		if vertical < -deadzone {
			up = true
		}
		if vertical > deadzone {
			down = true
		}
	}
	return
}

// getOrCreateInput returns the singleton Input component, creating if needed
func getOrCreateInput(ecs *ecs.ECS) *components.InputData {
	entry, ok := components.Input.First(ecs.World)
	if !ok {
		entry = ecs.World.Entry(ecs.World.Create(components.Input))
	}
	return components.Input.Get(entry)
}

// KeyboardSource turns the polled actions into paddle inputs. With Shared set
// (local two-player games) the left paddle listens to W/S and the right one to
// the arrows; otherwise the single local player may use either.
type KeyboardSource struct {
	ecs    *ecs.ECS
	Shared bool
}

func NewKeyboardSource(ecs *ecs.ECS, shared bool) *KeyboardSource {
	return &KeyboardSource{ecs: ecs, Shared: shared}
}

func (k *KeyboardSource) Poll(player int) input.Input {
	in := getOrCreateInput(k.ecs)
	leftUp, leftDown := in.Current[cfg.ActionLeftUp], in.Current[cfg.ActionLeftDown]
	rightUp, rightDown := in.Current[cfg.ActionRightUp], in.Current[cfg.ActionRightDown]

	if !k.Shared {
		return input.Combine(leftUp || rightUp, leftDown || rightDown)
	}
	if player == 0 {
		return input.Combine(leftUp, leftDown)
	}
	return input.Combine(rightUp, rightDown)
}
