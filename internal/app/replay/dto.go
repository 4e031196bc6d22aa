package replay

import "github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"

type Request struct {
	GameID       uint32
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

// AgentTrack is the last known position and liveness of one agent,
// rebuilt purely from the event stream.
type AgentTrack struct {
	X     int32 `json:"x"`
	Y     int32 `json:"y"`
	Alive bool  `json:"alive"`
}

type Response struct {
	Events    []game.DomainEvent   `json:"events"`
	Positions map[uint8]AgentTrack `json:"positions"`
}
