package game

import (
	"math"

	"github.com/gagliardetto/solana-go"
)

// ValidateMovement checks liveness, the movement cooldown and the map
// boundary. The boundary is a circle of radius mapDiameter/2 around the
// origin.
func (a *Agent) ValidateMovement(x, y int32, mapDiameter uint32, now int64) error {
	if !a.IsAlive {
		return ErrAgentNotAlive
	}
	if now < a.NextMoveTime {
		return ErrMovementCooldown
	}
	radius := float64(mapDiameter / 2)
	distance := math.Sqrt(float64(x)*float64(x) + float64(y)*float64(y))
	if distance > radius {
		return ErrOutOfBounds
	}
	return nil
}

// ApplyMove updates the position and arms the terrain cooldown.
func (a *Agent) ApplyMove(x, y int32, terrain Terrain, now int64) error {
	cooldown, ok := TerrainCooldown(terrain)
	if !ok {
		return ErrInvalidTerrain
	}
	a.X = x
	a.Y = y
	a.LastMove = now
	a.NextMoveTime = now + cooldown
	return nil
}

// ValidateBattleState checks that the agent may enter a new battle.
func (a *Agent) ValidateBattleState(now int64) error {
	if !a.IsAlive {
		return ErrAgentNotAlive
	}
	if a.CurrentBattleStart != nil {
		return ErrBattleStarted
	}
	if now < a.LastBattle+BattleCooldown {
		return ErrBattleCooldown
	}
	return nil
}

// StartBattle stamps the battle window. Settlement clears it.
func (a *Agent) StartBattle(now int64) {
	start := now
	a.CurrentBattleStart = &start
}

// SettleBattle closes the battle window and rearms the attack and battle
// cooldowns for every participant, winners and losers alike.
func (a *Agent) SettleBattle(now int64) {
	a.LastAttack = now
	a.LastBattle = now
	a.CurrentBattleStart = nil
}

// RecordIgnore registers a refusal to engage targetID.
func (a *Agent) RecordIgnore(targetID uint8, now int64) error {
	if !a.IsAlive {
		return ErrAgentNotAlive
	}
	if now < a.LastIgnore+IgnoreCooldown {
		return ErrIgnoreCooldown
	}
	a.LastIgnore = now
	a.IgnoreCooldowns = append(a.IgnoreCooldowns, IgnoreEntry{AgentID: targetID, Timestamp: now})
	return nil
}

// Kill marks the agent dead. Terminal.
func (a *Agent) Kill() {
	a.IsAlive = false
}

// DebitTokens removes amount from the liquid balance.
func (a *Agent) DebitTokens(amount uint64) error {
	if a.TokenBalance < amount {
		return ErrInsufficientFunds
	}
	a.TokenBalance -= amount
	return nil
}

// CreditTokens adds amount to the liquid balance.
func (a *Agent) CreditTokens(amount uint64) error {
	next := a.TokenBalance + amount
	if next < a.TokenBalance {
		return ErrTokenTransfer
	}
	a.TokenBalance = next
	return nil
}

// ValidateAlliance checks that a and partner may pair up: both alive, same
// game, distinct, neither already allied, and the re-pairing cooldown after
// a break with the same partner has elapsed.
func ValidateAlliance(a, partner *Agent, now int64) error {
	if !a.IsAlive || !partner.IsAlive {
		return ErrAgentNotAlive
	}
	if a.Address == partner.Address {
		return ErrInvalidPartner
	}
	if a.Game != partner.Game {
		return ErrInvalidPartner
	}
	if a.AllianceWith != nil || partner.AllianceWith != nil {
		return ErrAllianceExists
	}
	if rebindsTooSoon(a, partner.Address, now) || rebindsTooSoon(partner, a.Address, now) {
		return ErrAllianceCooldown
	}
	return nil
}

func rebindsTooSoon(a *Agent, partner solana.PublicKey, now int64) bool {
	return a.LastAllianceAgent != nil && *a.LastAllianceAgent == partner &&
		now < a.LastAllianceBroken+AllianceCooldown
}

// FormAlliance links both agents symmetrically.
func FormAlliance(a, b *Agent, now int64) error {
	if err := ValidateAlliance(a, b, now); err != nil {
		return err
	}
	aAddr, bAddr := a.Address, b.Address
	a.AllianceWith = &bAddr
	b.AllianceWith = &aAddr
	a.AllianceTimestamp = now
	b.AllianceTimestamp = now
	a.LastAlliance = now
	b.LastAlliance = now
	return nil
}

// BreakAlliance dissolves a mutual alliance and records the former partner
// on both sides for the re-pairing cooldown.
func BreakAlliance(a, b *Agent, now int64) error {
	if a.AllianceWith == nil || b.AllianceWith == nil {
		return ErrNoAllianceToBreak
	}
	if *a.AllianceWith != b.Address || *b.AllianceWith != a.Address {
		return ErrNoAllianceToBreak
	}
	aAddr, bAddr := a.Address, b.Address
	a.AllianceWith = nil
	b.AllianceWith = nil
	a.AllianceTimestamp = 0
	b.AllianceTimestamp = 0
	a.LastAllianceAgent = &bAddr
	b.LastAllianceAgent = &aAddr
	a.LastAllianceBroken = now
	b.LastAllianceBroken = now
	return nil
}
