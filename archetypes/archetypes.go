package archetypes

import (
	"github.com/automoto/p2pong/components"
	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Paddle = newArchetype(
		tags.Paddle,
		components.Paddle,
	)
	Ball = newArchetype(
		tags.Ball,
		components.Ball,
	)
	Scoreboard = newArchetype(
		tags.Scoreboard,
		components.Score,
	)
	NetStatus = newArchetype(
		tags.NetStatus,
		components.NetStatus,
	)
	Match = newArchetype(
		components.Match,
	)
	Input = newArchetype(
		components.Input,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
