package game

import "github.com/gagliardetto/solana-go"

// ValidateRegisterAgent checks registry-level constraints before an agent
// account is created.
func (g *Game) ValidateRegisterAgent(agentKey solana.PublicKey, name string) error {
	if !g.IsActive {
		return ErrGameNotActive
	}
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	if len(g.Agents) >= MaxAgents {
		return ErrMaxAgentLimit
	}
	for _, info := range g.Agents {
		if info.Key == agentKey {
			return ErrAgentExists
		}
	}
	return nil
}

// AddAgent appends an entry to the game registry.
func (g *Game) AddAgent(key solana.PublicKey, name string) {
	g.Agents = append(g.Agents, AgentInfo{Key: key, Name: name})
}

// Deactivate ends the game. Terminal.
func (g *Game) Deactivate() error {
	if !g.IsActive {
		return ErrGameNotActive
	}
	g.IsActive = false
	return nil
}

// AddStake upserts the staker's aggregate on the game account.
func (g *Game) AddStake(staker solana.PublicKey, amount uint64) error {
	for i := range g.TotalStakeAccounts {
		if g.TotalStakeAccounts[i].Staker == staker {
			next := g.TotalStakeAccounts[i].TotalStake + amount
			if next < g.TotalStakeAccounts[i].TotalStake {
				return ErrNotEnoughTokens
			}
			g.TotalStakeAccounts[i].TotalStake = next
			return nil
		}
	}
	g.TotalStakeAccounts = append(g.TotalStakeAccounts, StakerStake{Staker: staker, TotalStake: amount})
	return nil
}

// RemoveStake reduces the staker's aggregate. A missing entry is a no-op,
// matching the upsert semantics of AddStake.
func (g *Game) RemoveStake(staker solana.PublicKey, amount uint64) error {
	for i := range g.TotalStakeAccounts {
		if g.TotalStakeAccounts[i].Staker == staker {
			if g.TotalStakeAccounts[i].TotalStake < amount {
				return ErrNotEnoughTokens
			}
			g.TotalStakeAccounts[i].TotalStake -= amount
			return nil
		}
	}
	return nil
}

// TotalStaked sums every staker's aggregate.
func (g *Game) TotalStaked() uint64 {
	var total uint64
	for _, entry := range g.TotalStakeAccounts {
		total += entry.TotalStake
	}
	return total
}

// Touch records that an instruction mutated game state at now.
func (g *Game) Touch(now int64) {
	g.LastUpdate = now
}
