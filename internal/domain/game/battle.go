package game

// SplitTransfer divides a battle transfer across an allied pair. The
// partner takes half rounded down, the lead agent takes the rest.
func SplitTransfer(amount uint64) (lead, partner uint64) {
	partner = amount / 2
	lead = amount - partner
	return lead, partner
}

// ValidateBattleStake requires the two sides to bring at least the minimum
// combined liquid balance into a battle.
func ValidateBattleStake(attacker, defender *Agent) error {
	total := attacker.TokenBalance + defender.TokenBalance
	if total < attacker.TokenBalance {
		return nil // wrapped, so far above the minimum
	}
	if total < MinBattleTokens {
		return ErrNotEnoughTokens
	}
	return nil
}

// ValidateResolution gates settlement across every participant. All of them
// must carry a battle window, and the window that opened first must have run
// its full cooldown. Keying on the earliest start means a participant whose
// clock was rewound by the cooldown override unblocks the whole battle.
func ValidateResolution(now int64, participants ...*Agent) error {
	var earliest int64
	found := false
	for _, a := range participants {
		if a.CurrentBattleStart == nil {
			return ErrBattleNotStarted
		}
		if !found || *a.CurrentBattleStart < earliest {
			earliest = *a.CurrentBattleStart
			found = true
		}
	}
	if !found {
		return ErrBattleNotStarted
	}
	if now < earliest+BattleCooldown {
		return ErrBattleNotReady
	}
	return nil
}
