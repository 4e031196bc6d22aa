//go:build e2e

package e2e

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
)

// The suite drives a deployed server with ephemeral wallets. It creates a
// fresh game per run, so repeated runs do not collide.
func TestRemoteAPI_MainEndpoints(t *testing.T) {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("E2E_BASE_URL")), "/")
	if baseURL == "" {
		t.Skip("E2E_BASE_URL not set")
	}
	client := &http.Client{Timeout: 20 * time.Second}

	gameID := uint32(time.Now().UTC().UnixNano() % 4_000_000_000)
	_, bump, err := pda.Game(gameID)
	if err != nil {
		t.Fatalf("derive game: %v", err)
	}
	authority := solana.NewWallet()
	agentKey := solana.NewWallet()
	staker := solana.NewWallet()

	t.Run("unsigned tx rejected", func(t *testing.T) {
		status, body := mustRequest(t, client, http.MethodPost, baseURL+"/api/tx/initialize_game", nil,
			map[string]any{"game_id": gameID, "bump": bump})
		if status != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d body=%s", status, string(body))
		}
	})

	t.Run("idl lists instructions", func(t *testing.T) {
		status, body := mustRequest(t, client, http.MethodGet, baseURL+"/api/idl", nil, nil)
		if status != http.StatusOK {
			t.Fatalf("idl status=%d body=%s", status, string(body))
		}
		var manifest struct {
			ProgramID    string           `json:"program_id"`
			Instructions []map[string]any `json:"instructions"`
		}
		if err := json.Unmarshal(body, &manifest); err != nil {
			t.Fatalf("unmarshal idl: %v body=%s", err, string(body))
		}
		if manifest.ProgramID != pda.ProgramID.String() {
			t.Fatalf("program id mismatch: %s", manifest.ProgramID)
		}
		if len(manifest.Instructions) == 0 {
			t.Fatalf("expected instructions in manifest")
		}
	})

	t.Run("game lifecycle", func(t *testing.T) {
		status, body := mustRequest(t, client, http.MethodPost, baseURL+"/api/tx/initialize_game", authority,
			map[string]any{"game_id": gameID, "bump": bump})
		if status != http.StatusOK {
			t.Fatalf("initialize_game status=%d body=%s", status, string(body))
		}

		status, body = mustRequest(t, client, http.MethodPost, baseURL+"/api/tx/register_agent", agentKey,
			map[string]any{"game_id": gameID, "agent_id": 1, "x": 10, "y": -4, "name": "e2e-scout"})
		if status != http.StatusOK {
			t.Fatalf("register_agent status=%d body=%s", status, string(body))
		}

		status, body = mustRequest(t, client, http.MethodPost, baseURL+"/api/tx/move_agent", agentKey,
			map[string]any{"game_id": gameID, "agent_id": 1, "x": 11, "y": -4, "terrain": "plain"})
		if status != http.StatusOK {
			t.Fatalf("move_agent status=%d body=%s", status, string(body))
		}

		status, body = mustRequest(t, client, http.MethodPost, baseURL+"/api/tx/move_agent", agentKey,
			map[string]any{"game_id": gameID, "agent_id": 1, "x": 12, "y": -4, "terrain": "plain"})
		if status != http.StatusConflict {
			t.Fatalf("second move status=%d body=%s", status, string(body))
		}
		if code := errorCode(body); code != "MovementCooldown" {
			t.Fatalf("second move code=%q body=%s", code, string(body))
		}
	})

	t.Run("read side", func(t *testing.T) {
		status, body := mustRequest(t, client, http.MethodGet,
			fmt.Sprintf("%s/api/game?game_id=%d", baseURL, gameID), nil, nil)
		if status != http.StatusOK {
			t.Fatalf("game query status=%d body=%s", status, string(body))
		}

		status, body = mustRequest(t, client, http.MethodGet,
			fmt.Sprintf("%s/api/agent?game_id=%d&agent_id=1", baseURL, gameID), nil, nil)
		if status != http.StatusOK {
			t.Fatalf("agent query status=%d body=%s", status, string(body))
		}
		var agentView struct {
			Cooldowns struct {
				MoveReadyIn int64 `json:"move_ready_in_seconds"`
			} `json:"cooldowns"`
		}
		if err := json.Unmarshal(body, &agentView); err != nil {
			t.Fatalf("unmarshal agent view: %v body=%s", err, string(body))
		}
		if agentView.Cooldowns.MoveReadyIn <= 0 {
			t.Fatalf("expected pending move cooldown, got %d", agentView.Cooldowns.MoveReadyIn)
		}

		status, body = mustRequest(t, client, http.MethodGet,
			fmt.Sprintf("%s/api/events?game_id=%d&limit=50", baseURL, gameID), nil, nil)
		if status != http.StatusOK {
			t.Fatalf("events status=%d body=%s", status, string(body))
		}
		var rep struct {
			Events    []map[string]any `json:"events"`
			Positions map[string]struct {
				X     int32 `json:"x"`
				Y     int32 `json:"y"`
				Alive bool  `json:"alive"`
			} `json:"positions"`
		}
		if err := json.Unmarshal(body, &rep); err != nil {
			t.Fatalf("unmarshal replay: %v body=%s", err, string(body))
		}
		if len(rep.Events) == 0 {
			t.Fatalf("expected replay events")
		}
		track, ok := rep.Positions["1"]
		if !ok || track.X != 11 || track.Y != -4 || !track.Alive {
			t.Fatalf("replay position mismatch: %+v", rep.Positions)
		}

		status, body = mustRequest(t, client, http.MethodGet,
			fmt.Sprintf("%s/api/journal?game_id=%d", baseURL, gameID), nil, nil)
		if status != http.StatusOK {
			t.Fatalf("journal status=%d body=%s", status, string(body))
		}
		var trail struct {
			Entries []struct {
				Instruction string `json:"instruction"`
				Signer      string `json:"signer"`
			} `json:"entries"`
		}
		if err := json.Unmarshal(body, &trail); err != nil {
			t.Fatalf("unmarshal journal: %v body=%s", err, string(body))
		}
		// The rejected second move rolled back, so only applied calls show.
		if len(trail.Entries) != 3 {
			t.Fatalf("expected 3 journal entries, got %d body=%s", len(trail.Entries), string(body))
		}
		if trail.Entries[0].Instruction != "initialize_game" || trail.Entries[2].Instruction != "move_agent" {
			t.Fatalf("journal out of order: %+v", trail.Entries)
		}
	})

	t.Run("stake account", func(t *testing.T) {
		status, body := mustRequest(t, client, http.MethodPost, baseURL+"/api/tx/initialize_stake", staker,
			map[string]any{"game_id": gameID, "agent_id": 1})
		if status != http.StatusOK {
			t.Fatalf("initialize_stake status=%d body=%s", status, string(body))
		}

		status, body = mustRequest(t, client, http.MethodGet,
			fmt.Sprintf("%s/api/stake?game_id=%d&agent_id=1&staker=%s", baseURL, gameID, staker.PublicKey()), nil, nil)
		if status != http.StatusOK {
			t.Fatalf("stake query status=%d body=%s", status, string(body))
		}
		var view struct {
			Stake struct {
				Amount uint64 `json:"amount"`
			} `json:"stake"`
		}
		if err := json.Unmarshal(body, &view); err != nil {
			t.Fatalf("unmarshal stake view: %v body=%s", err, string(body))
		}
		if view.Stake.Amount != 0 {
			t.Fatalf("fresh stake amount=%d", view.Stake.Amount)
		}

		status, body = mustRequest(t, client, http.MethodGet,
			fmt.Sprintf("%s/api/agent/stakes?game_id=%d&agent_id=1", baseURL, gameID), nil, nil)
		if status != http.StatusOK {
			t.Fatalf("agent stakes status=%d body=%s", status, string(body))
		}
		var positions struct {
			Stakes []struct {
				Staker string `json:"staker"`
			} `json:"stakes"`
			TotalStaked uint64 `json:"total_staked"`
		}
		if err := json.Unmarshal(body, &positions); err != nil {
			t.Fatalf("unmarshal agent stakes: %v body=%s", err, string(body))
		}
		if len(positions.Stakes) != 1 || positions.Stakes[0].Staker != staker.PublicKey().String() {
			t.Fatalf("unexpected stake positions: %+v", positions.Stakes)
		}
		if positions.TotalStaked != 0 {
			t.Fatalf("nothing was staked yet, total=%d", positions.TotalStaked)
		}
	})

	t.Run("ops kpi", func(t *testing.T) {
		status, body := mustRequest(t, client, http.MethodGet, baseURL+"/ops/kpi", nil, nil)
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(body))
		}
		var kpi map[string]any
		if err := json.Unmarshal(body, &kpi); err != nil {
			t.Fatalf("unmarshal kpi: %v body=%s", err, string(body))
		}
		if _, ok := kpi["instruction_total"]; !ok {
			t.Fatalf("expected instruction_total in kpi response, got=%v", kpi)
		}
	})
}

func errorCode(body []byte) string {
	var parsed map[string]map[string]string
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed["error"]["code"]
}

func mustRequest(t *testing.T, client *http.Client, method, url string, signer *solana.Wallet, body map[string]any) (int, []byte) {
	t.Helper()
	status, respBody, err := doRequest(client, method, url, signer, body)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", method, url, err)
	}
	return status, respBody
}

// doRequest signs the exact payload bytes when a wallet is given and
// retries transient failures.
func doRequest(client *http.Client, method, url string, signer *solana.Wallet, body map[string]any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payloadBytes = b
	}

	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if signer != nil {
			sig, err := signer.PrivateKey.Sign(payloadBytes)
			if err != nil {
				return 0, nil, err
			}
			req.Header.Set("X-Signer", signer.PublicKey().String())
			req.Header.Set("X-Signature", base64.StdEncoding.EncodeToString(sig[:]))
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}
