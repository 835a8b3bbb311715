package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/telecare/signaling/internal/app"
	"github.com/telecare/signaling/internal/config"
)

func testRouterEnv(t *testing.T) (*httptest.Server, *app.Orchestrator) {
	t.Helper()
	cfg := &config.Config{Mode: "release", Secret: testSecret, ReadLimit: 32768, PingPeriod: time.Minute}
	orch := &app.Orchestrator{
		Registry: app.NewRegistry(),
		Calls:    app.NewCallRegistry(),
		Guard:    &app.Guard{Lookup: &fakeLookup{}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ts := httptest.NewServer(SetupRouter(ctx, cfg, orch))
	t.Cleanup(ts.Close)
	return ts, orch
}

func TestHealthz(t *testing.T) {
	ts, _ := testRouterEnv(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRoomsEndpoint_AdminOnly(t *testing.T) {
	ts, orch := testRouterEnv(t)
	orch.Calls.SetActive("room-1", "doctor-1")

	get := func(token string) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/rooms", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		return resp
	}

	resp := get(signToken(t, "patient-1", "Alice", "user"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", resp.StatusCode)
	}

	resp = get(signToken(t, "admin-1", "Root", "admin"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", resp.StatusCode)
	}
	var rooms []roomInfo
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomID != "room-1" || !rooms[0].State.Active {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func TestICEServersEndpoint_RequiresAuth(t *testing.T) {
	ts, _ := testRouterEnv(t)

	resp, err := http.Get(ts.URL + "/api/ice-servers")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
