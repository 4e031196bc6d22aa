package idl

import (
	"context"
	"testing"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
)

func TestManifestListsEveryInstructionOnce(t *testing.T) {
	m := UseCase{}.Manifest(context.Background())
	if m.ProgramID != pda.ProgramID.String() {
		t.Fatalf("unexpected program id %s", m.ProgramID)
	}
	if len(m.Instructions) != 21 {
		t.Fatalf("expected 21 instructions, got %d", len(m.Instructions))
	}
	seen := map[string]bool{}
	for _, ins := range m.Instructions {
		if seen[ins.Name] {
			t.Fatalf("duplicate instruction %s", ins.Name)
		}
		seen[ins.Name] = true
		if ins.Authority == "" {
			t.Fatalf("instruction %s has no authority", ins.Name)
		}
		if len(ins.Accounts) == 0 {
			t.Fatalf("instruction %s touches no accounts", ins.Name)
		}
	}
	for _, name := range []string{"initialize_game", "start_battle", "claim_staking_rewards", "fund_agent"} {
		if !seen[name] {
			t.Fatalf("missing instruction %s", name)
		}
	}
}

func TestManifestErrorCodesAreUnique(t *testing.T) {
	m := UseCase{}.Manifest(context.Background())
	seen := map[string]bool{}
	for _, e := range m.Errors {
		if e.Code == "" || e.Message == "" {
			t.Fatalf("incomplete error entry: %+v", e)
		}
		if seen[e.Code] {
			t.Fatalf("duplicate error code %s", e.Code)
		}
		seen[e.Code] = true
	}
	for _, code := range []string{"GameNotActive", "BattleNotReadyToResolve", "AccountAlreadyInUse", "Internal"} {
		if !seen[code] {
			t.Fatalf("missing error code %s", code)
		}
	}
}
