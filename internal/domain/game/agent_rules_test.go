package game

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func newTestAgent(id uint8) *Agent {
	return &Agent{
		Address:   solana.NewWallet().PublicKey(),
		Game:      solana.PublicKey{},
		Authority: solana.NewWallet().PublicKey(),
		ID:        id,
		IsAlive:   true,
	}
}

func TestValidateMovement_CooldownAndBounds(t *testing.T) {
	agent := newTestAgent(1)
	agent.NextMoveTime = 1000

	if err := agent.ValidateMovement(10, 20, DefaultMapDiameter, 999); !errors.Is(err, ErrMovementCooldown) {
		t.Fatalf("expected movement cooldown, got %v", err)
	}
	if err := agent.ValidateMovement(10, 20, DefaultMapDiameter, 1000); err != nil {
		t.Fatalf("expected move allowed at cooldown boundary, got %v", err)
	}
	if err := agent.ValidateMovement(400, 400, DefaultMapDiameter, 1000); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
	if err := agent.ValidateMovement(500, 0, DefaultMapDiameter, 1000); err != nil {
		t.Fatalf("expected boundary radius to be inclusive, got %v", err)
	}

	agent.IsAlive = false
	if err := agent.ValidateMovement(0, 0, DefaultMapDiameter, 1000); !errors.Is(err, ErrAgentNotAlive) {
		t.Fatalf("expected not alive, got %v", err)
	}
}

func TestApplyMove_TerrainCooldowns(t *testing.T) {
	cases := []struct {
		terrain Terrain
		want    int64
	}{
		{TerrainPlain, MovementCooldown},
		{TerrainRiver, RiverMovementCooldown},
		{TerrainMountain, MountainMovementCooldown},
	}
	for _, tc := range cases {
		agent := newTestAgent(1)
		if err := agent.ApplyMove(3, -4, tc.terrain, 5000); err != nil {
			t.Fatalf("%s: apply move error: %v", tc.terrain, err)
		}
		if agent.X != 3 || agent.Y != -4 {
			t.Fatalf("%s: position not updated", tc.terrain)
		}
		if agent.LastMove != 5000 {
			t.Fatalf("%s: last move not stamped", tc.terrain)
		}
		if agent.NextMoveTime != 5000+tc.want {
			t.Fatalf("%s: next move time %d, want %d", tc.terrain, agent.NextMoveTime, 5000+tc.want)
		}
	}

	agent := newTestAgent(1)
	if err := agent.ApplyMove(0, 0, Terrain("swamp"), 5000); !errors.Is(err, ErrInvalidTerrain) {
		t.Fatalf("expected invalid terrain, got %v", err)
	}
}

func TestBattleStateGates(t *testing.T) {
	agent := newTestAgent(1)
	agent.LastBattle = 1000

	if err := agent.ValidateBattleState(1000 + BattleCooldown - 1); !errors.Is(err, ErrBattleCooldown) {
		t.Fatalf("expected battle cooldown, got %v", err)
	}
	if err := agent.ValidateBattleState(1000 + BattleCooldown); err != nil {
		t.Fatalf("expected battle allowed, got %v", err)
	}

	agent.StartBattle(20000)
	if err := agent.ValidateBattleState(30000 + BattleCooldown); !errors.Is(err, ErrBattleStarted) {
		t.Fatalf("expected battle already started, got %v", err)
	}
}

func TestSettleBattleClearsWindowAndStamps(t *testing.T) {
	agent := newTestAgent(1)
	agent.StartBattle(1000)

	agent.SettleBattle(1000 + BattleCooldown)
	if agent.CurrentBattleStart != nil {
		t.Fatalf("expected battle window cleared")
	}
	if agent.LastAttack != 1000+BattleCooldown || agent.LastBattle != 1000+BattleCooldown {
		t.Fatalf("expected attack and battle stamps updated")
	}
}

func TestFormAlliance_Symmetric(t *testing.T) {
	a := newTestAgent(1)
	b := newTestAgent(2)

	if err := FormAlliance(a, b, 7000); err != nil {
		t.Fatalf("form alliance error: %v", err)
	}
	if a.AllianceWith == nil || *a.AllianceWith != b.Address {
		t.Fatalf("expected a allied with b")
	}
	if b.AllianceWith == nil || *b.AllianceWith != a.Address {
		t.Fatalf("expected b allied with a")
	}
	if a.AllianceTimestamp != 7000 || b.AllianceTimestamp != 7000 {
		t.Fatalf("expected alliance timestamps on both sides")
	}

	c := newTestAgent(3)
	if err := FormAlliance(a, c, 7001); !errors.Is(err, ErrAllianceExists) {
		t.Fatalf("expected alliance already exists, got %v", err)
	}
	if err := FormAlliance(c, c, 7001); !errors.Is(err, ErrInvalidPartner) {
		t.Fatalf("expected invalid partner for self-alliance, got %v", err)
	}
}

func TestBreakAlliance_RecordsCooldownOnBothSides(t *testing.T) {
	a := newTestAgent(1)
	b := newTestAgent(2)
	if err := FormAlliance(a, b, 7000); err != nil {
		t.Fatalf("form alliance error: %v", err)
	}

	if err := BreakAlliance(a, b, 8000); err != nil {
		t.Fatalf("break alliance error: %v", err)
	}
	if a.AllianceWith != nil || b.AllianceWith != nil {
		t.Fatalf("expected both sides cleared")
	}
	if a.LastAllianceBroken != 8000 || b.LastAllianceBroken != 8000 {
		t.Fatalf("expected break timestamp on both sides")
	}
	if a.LastAllianceAgent == nil || *a.LastAllianceAgent != b.Address {
		t.Fatalf("expected former partner recorded")
	}

	// Re-pairing the same partner inside the cooldown window is rejected,
	// a different partner is not.
	if err := FormAlliance(a, b, 8000+AllianceCooldown-1); !errors.Is(err, ErrAllianceCooldown) {
		t.Fatalf("expected alliance cooldown, got %v", err)
	}
	c := newTestAgent(3)
	if err := FormAlliance(a, c, 8000+1); err != nil {
		t.Fatalf("expected new partner allowed, got %v", err)
	}
	if err := BreakAlliance(a, c, 8002); err != nil {
		t.Fatalf("break alliance error: %v", err)
	}
	if err := FormAlliance(a, b, 8000+AllianceCooldown); err != nil {
		t.Fatalf("expected re-pairing after cooldown, got %v", err)
	}
}

func TestBreakAlliance_RequiresMutualLink(t *testing.T) {
	a := newTestAgent(1)
	b := newTestAgent(2)

	if err := BreakAlliance(a, b, 8000); !errors.Is(err, ErrNoAllianceToBreak) {
		t.Fatalf("expected no alliance to break, got %v", err)
	}
}

func TestRecordIgnore(t *testing.T) {
	agent := newTestAgent(1)

	if err := agent.RecordIgnore(2, 1000); err != nil {
		t.Fatalf("record ignore error: %v", err)
	}
	if len(agent.IgnoreCooldowns) != 1 || agent.IgnoreCooldowns[0].AgentID != 2 {
		t.Fatalf("expected ignore entry appended")
	}
	if err := agent.RecordIgnore(3, 1000+IgnoreCooldown-1); !errors.Is(err, ErrIgnoreCooldown) {
		t.Fatalf("expected ignore cooldown, got %v", err)
	}
	if err := agent.RecordIgnore(3, 1000+IgnoreCooldown); err != nil {
		t.Fatalf("expected ignore allowed after cooldown, got %v", err)
	}
}

func TestTokenDebitCredit(t *testing.T) {
	agent := newTestAgent(1)
	agent.TokenBalance = 100

	if err := agent.DebitTokens(101); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if err := agent.DebitTokens(40); err != nil {
		t.Fatalf("debit error: %v", err)
	}
	if err := agent.CreditTokens(15); err != nil {
		t.Fatalf("credit error: %v", err)
	}
	if agent.TokenBalance != 75 {
		t.Fatalf("balance %d, want 75", agent.TokenBalance)
	}
}
