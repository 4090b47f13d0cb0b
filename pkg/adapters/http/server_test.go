package http_test

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/logging"
	adapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *session.Manager {
	var n atomic.Int64
	return session.NewManager(session.WithIDGenerator(func() string {
		return fmt.Sprintf("m%d", n.Add(1))
	}))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndInfo(t *testing.T) {
	h := adapter.NewHandler(newManager(), adapter.WithLogger(logging.NewNop()))

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	info := decode[map[string]any](t, w)
	assert.Equal(t, "turing-http", info["app"])
	assert.EqualValues(t, domain.TapeSize, info["tape_size"])
	assert.Equal(t, false, info["run_history"])
}

func TestMachineLifecycle(t *testing.T) {
	h := adapter.NewHandler(newManager(), adapter.WithLogger(logging.NewNop()))

	w := do(t, h, "POST", "/machines", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/machines/m1", w.Header().Get("Location"))
	snap := decode[domain.Snapshot](t, w)
	assert.Equal(t, "m1", snap.ID)
	assert.Equal(t, domain.StatusReady, snap.Status)
	assert.Equal(t, domain.TapeSize/2, snap.Position)

	w = do(t, h, "GET", "/machines", "")
	assert.JSONEq(t, `{"machines":["m1"]}`, w.Body.String())

	w = do(t, h, "DELETE", "/machines/m1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "GET", "/machines/m1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStepMoveAdvance(t *testing.T) {
	h := adapter.NewHandler(newManager(), adapter.WithLogger(logging.NewNop()))
	do(t, h, "POST", "/machines", "")

	w := do(t, h, "POST", "/machines/m1/step", "")
	require.Equal(t, http.StatusOK, w.Code)
	var step struct {
		Applied    bool              `json:"applied"`
		Transition domain.Transition `json:"transition"`
		Machine    domain.Snapshot   `json:"machine"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &step))
	assert.True(t, step.Applied)
	assert.Equal(t, 1, step.Transition.Tick)
	assert.Equal(t, domain.TapeSize/2, step.Machine.Position, "step never moves the head")

	w = do(t, h, "POST", "/machines/m1/move", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "POST", "/machines/m1/advance?count=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var adv struct {
		Ticks   int             `json:"ticks"`
		Halted  bool            `json:"halted"`
		Machine domain.Snapshot `json:"machine"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adv))
	assert.Equal(t, 3, adv.Ticks)
	assert.Equal(t, 4, adv.Machine.Ticks)
	assert.Equal(t, domain.TapeSize/2-4, adv.Machine.Position)

	w = do(t, h, "POST", "/machines/m1/advance?count=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHaltedMachineConflicts(t *testing.T) {
	h := adapter.NewHandler(newManager(), adapter.WithLogger(logging.NewNop()))
	do(t, h, "POST", "/machines", "")

	w := do(t, h, "PUT", "/machines/m1/rules/a/blank", `{"next":"accept","write":"1","move":"right"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, "POST", "/machines/m1/advance?count=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"halted":true`)
	assert.Contains(t, w.Body.String(), `"ticks":1`)

	for _, path := range []string{"step", "move", "advance"} {
		w = do(t, h, "POST", "/machines/m1/"+path, "")
		assert.Equal(t, http.StatusConflict, w.Code, path)
	}
	w = do(t, h, "POST", "/machines/m1/run", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Halting freezes the tape.
	snap := decode[domain.Snapshot](t, do(t, h, "GET", "/machines/m1", ""))
	assert.Equal(t, domain.Accept, snap.State)
	assert.Equal(t, domain.Blank, snap.Current())

	w = do(t, h, "POST", "/machines/m1/reset", `{"random":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap = decode[domain.Snapshot](t, w)
	assert.Equal(t, domain.StatusReady, snap.Status)
}

func TestEdits(t *testing.T) {
	h := adapter.NewHandler(newManager(), adapter.WithLogger(logging.NewNop()))
	do(t, h, "POST", "/machines", "")

	w := do(t, h, "PUT", "/machines/m1/tape/-1", `{"symbol":"X"}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[domain.Snapshot](t, w)
	assert.Equal(t, domain.Cross, snap.Tape.Read(domain.TapeSize-1))

	w = do(t, h, "POST", "/machines/m1/tape/10/cycle", "")
	snap = decode[domain.Snapshot](t, w)
	assert.Equal(t, domain.Cross, snap.Tape.Read(10))

	w = do(t, h, "PUT", "/machines/m1/tape/abc", `{"symbol":"X"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, "PUT", "/machines/m1/tape/3", `{"symbol":"?"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "PUT", "/machines/m1/head", `{"position":7}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[domain.Snapshot](t, w).Position)
	w = do(t, h, "PUT", "/machines/m1/head", `{"position":2000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, "PUT", "/machines/m1/head", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/machines/m1/rules/c/one/next/cycle", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap = decode[domain.Snapshot](t, w)
	assert.Equal(t, domain.StateB, snap.Rules[domain.StateC][domain.One].Next)

	w = do(t, h, "POST", "/machines/m1/rules/c/one/move/cycle", "")
	snap = decode[domain.Snapshot](t, w)
	assert.Equal(t, domain.Right, snap.Rules[domain.StateC][domain.One].Move)

	w = do(t, h, "POST", "/machines/m1/rules/c/one/colour/cycle", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, "POST", "/machines/m1/rules/H/one/next/cycle", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, "POST", "/machines/m9/rules/a/one/next/cycle", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunAndHistory(t *testing.T) {
	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	mgr := session.NewManager(session.WithIDGenerator(func() string { return "m1" }))
	h := adapter.NewHandler(mgr,
		adapter.WithStore(store),
		adapter.WithMetrics(metrics),
		adapter.WithGatherer(reg),
		adapter.WithMaxTicks(500),
		adapter.WithLogger(logging.NewNop()),
	)
	do(t, h, "POST", "/machines", "")

	w := do(t, h, "POST", "/machines/m1/run", `{"max_ticks":50}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec := decode[domain.RunRecord](t, w)
	assert.Equal(t, domain.StopMaxTicks, rec.Reason)
	assert.Equal(t, 50, rec.Ticks)
	assert.Equal(t, "m1", rec.MachineID)

	// The server cap wins over larger requests.
	w = do(t, h, "POST", "/machines/m1/run", `{"max_ticks":100000}`)
	assert.Equal(t, 500, decode[domain.RunRecord](t, w).Ticks)

	w = do(t, h, "GET", "/runs", "")
	runs := decode[map[string][]string](t, w)
	assert.Len(t, runs["runs"], 2)
	assert.Contains(t, runs["runs"], rec.ID)

	w = do(t, h, "GET", "/runs/"+rec.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, "GET", "/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `turing_runs_total{reason="max_ticks"} 2`)
	assert.Contains(t, w.Body.String(), "turing_machines 1")
}

func TestRunsDisabledWithoutStore(t *testing.T) {
	h := adapter.NewHandler(newManager(), adapter.WithLogger(logging.NewNop()))
	w := do(t, h, "GET", "/runs", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestSubscribeEvents(t *testing.T) {
	srv := adapter.NewServer(newManager(), adapter.WithLogger(logging.NewNop()))
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/machines", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/machines/m1/events?watch=tape")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if line := sc.Text(); strings.HasPrefix(line, "data: ") {
				lines <- strings.TrimPrefix(line, "data: ")
			}
		}
	}()

	require.Equal(t, "connected", <-lines)
	require.Eventually(t, func() bool { return srv.Streams.Subscribers("m1") == 1 }, time.Second, 10*time.Millisecond)

	// A head move is filtered out; a tape write is delivered.
	req, _ := http.NewRequest("PUT", ts.URL+"/machines/m1/head", strings.NewReader(`{"position":3}`))
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()

	req, _ = http.NewRequest("PUT", ts.URL+"/machines/m1/tape/3", strings.NewReader(`{"symbol":"1"}`))
	resp2, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()

	select {
	case msg := <-lines:
		var ev struct {
			Type string               `json:"type"`
			Diff *domain.SnapshotDiff `json:"diff"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg), &ev))
		assert.Equal(t, "diff", ev.Type)
		assert.Equal(t, map[int]domain.Symbol{3: domain.One}, ev.Diff.Cells)
		assert.Nil(t, ev.Diff.Position)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestStreamManager(t *testing.T) {
	sm := adapter.NewStreamManager(logging.NewNop())
	ch, cancel := sm.Subscribe("m1")
	assert.Equal(t, 1, sm.Subscribers("m1"))

	sm.Broadcast("m1", "hello")
	sm.Broadcast("other", "ignored")
	assert.Equal(t, "hello", <-ch)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("m1"))
	_, ok := <-ch
	assert.False(t, ok)
}

func TestGetGraph(t *testing.T) {
	h := adapter.NewHandler(newManager(), adapter.WithLogger(logging.NewNop()))
	do(t, h, "POST", "/machines", "")

	w := do(t, h, "GET", "/machines/m1/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR"))
	assert.Contains(t, w.Body.String(), "class s_a current;")
}
