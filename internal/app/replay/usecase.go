package replay

import (
	"context"
	"errors"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
)

var ErrInvalidRequest = errors.New("invalid replay request")

// UseCase replays a game's event stream. Alongside the raw events it
// returns the map state they imply, so a consumer that missed earlier
// events can catch up from a single call.
type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	gameAddress, _, err := pda.Game(req.GameID)
	if err != nil {
		return Response{}, err
	}
	events, err := u.Events.ListByGame(ctx, gameAddress, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	return Response{Events: events, Positions: reconstruct(events)}, nil
}

func filterByTimeWindow(events []game.DomainEvent, from, to int64) []game.DomainEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]game.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func reconstruct(events []game.DomainEvent) map[uint8]AgentTrack {
	positions := map[uint8]AgentTrack{}
	for _, evt := range events {
		id := uint8(num(evt.Payload["agent_id"]))
		switch evt.Type {
		case "agent_registered":
			positions[id] = AgentTrack{
				X:     int32(num(evt.Payload["x"])),
				Y:     int32(num(evt.Payload["y"])),
				Alive: true,
			}
		case "agent_moved":
			track, ok := positions[id]
			if !ok {
				track.Alive = true
			}
			track.X = int32(num(evt.Payload["new_x"]))
			track.Y = int32(num(evt.Payload["new_y"]))
			positions[id] = track
		case "agent_killed":
			track := positions[id]
			track.Alive = false
			positions[id] = track
		}
	}
	return positions
}

// num coerces payload values that may have round-tripped through JSON,
// where every number comes back as float64.
func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint8:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
