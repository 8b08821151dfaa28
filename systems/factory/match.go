package factory

import (
	"github.com/automoto/p2pong/archetypes"
	"github.com/automoto/p2pong/components"
	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/shared/pong"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateMatch spawns every display entity for a match started from game.
func CreateMatch(ecs *ecs.ECS, role cfg.Role, localPlayers []int, game pong.Game) *donburi.Entry {
	match := archetypes.Match.Spawn(ecs)
	components.Match.SetValue(match, components.MatchData{
		Role:         role,
		LocalPlayers: localPlayers,
		Frame:        game.Frame,
	})

	for i, p := range game.Paddles {
		CreatePaddle(ecs, i, p)
	}
	CreateBall(ecs, game.Ball)
	CreateScoreboard(ecs, game.Scores)
	CreateNetStatus(ecs, role != cfg.RoleLocal)
	archetypes.Input.Spawn(ecs)

	return match
}

func CreatePaddle(ecs *ecs.ECS, player int, p pong.Paddle) *donburi.Entry {
	paddle := archetypes.Paddle.Spawn(ecs)
	components.Paddle.SetValue(paddle, components.PaddleData{Player: player, Rect: p.Rect})
	return paddle
}

func CreateBall(ecs *ecs.ECS, b pong.Ball) *donburi.Entry {
	ball := archetypes.Ball.Spawn(ecs)
	components.Ball.SetValue(ball, components.BallData{Position: b.Position, Radius: b.Radius})
	return ball
}

func CreateScoreboard(ecs *ecs.ECS, scores [2]uint8) *donburi.Entry {
	board := archetypes.Scoreboard.Spawn(ecs)
	components.Score.SetValue(board, components.ScoreData{Values: scores})
	return board
}

func CreateNetStatus(ecs *ecs.ECS, online bool) *donburi.Entry {
	status := archetypes.NetStatus.Spawn(ecs)
	components.NetStatus.SetValue(status, components.NetStatusData{
		Visible: cfg.HUD.ShowNetStatus && online,
		Online:  online,
	})
	return status
}
