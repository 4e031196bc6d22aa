package game

// Clone returns a copy that shares no memory with the receiver, so callers
// can mutate fetched state freely before committing it back.
func (g Game) Clone() Game {
	out := g
	if g.Agents != nil {
		out.Agents = append([]AgentInfo(nil), g.Agents...)
	}
	if g.TotalStakeAccounts != nil {
		out.TotalStakeAccounts = append([]StakerStake(nil), g.TotalStakeAccounts...)
	}
	return out
}

func (a Agent) Clone() Agent {
	out := a
	if a.CurrentBattleStart != nil {
		start := *a.CurrentBattleStart
		out.CurrentBattleStart = &start
	}
	if a.AllianceWith != nil {
		partner := *a.AllianceWith
		out.AllianceWith = &partner
	}
	if a.LastAllianceAgent != nil {
		last := *a.LastAllianceAgent
		out.LastAllianceAgent = &last
	}
	if a.IgnoreCooldowns != nil {
		out.IgnoreCooldowns = append([]IgnoreEntry(nil), a.IgnoreCooldowns...)
	}
	return out
}

func (s StakeInfo) Clone() StakeInfo {
	return s
}
