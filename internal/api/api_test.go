package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ItsNotGoodName/x-tagbar/internal/bar"
	"github.com/ItsNotGoodName/x-tagbar/internal/build"
	"github.com/ItsNotGoodName/x-tagbar/internal/bus"
	"github.com/ItsNotGoodName/x-tagbar/internal/tags"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []bar.Msg
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg bar.Msg) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeSender) Msgs() []bar.Msg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bar.Msg(nil), f.msgs...)
}

func mask(m tags.Mask) *tags.Mask { return &m }

func newTestServer(t *testing.T) (*Server, *fakeSender, *bus.Hub[bar.Snapshot], *httptest.Server) {
	t.Helper()

	sender := &fakeSender{}
	hub := bus.NewHub[bar.Snapshot]()
	s := New(sender, hub)
	ts := httptest.NewServer(s.Handler(build.Build{Version: "test"}))
	t.Cleanup(ts.Close)

	return s, sender, hub, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestGetState(t *testing.T) {
	s, _, hub, ts := newTestServer(t)

	t.Run("Empty", func(t *testing.T) {
		res := do(t, http.MethodGet, ts.URL+"/v1/state", "")
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.StatusCode)
		}

		var state State
		if err := json.NewDecoder(res.Body).Decode(&state); err != nil {
			t.Fatal(err)
		}
		if state.Session != s.Session() || state.Primary != -1 || state.Configured {
			t.Fatalf("unexpected state %+v", state)
		}
	})

	t.Run("Latest", func(t *testing.T) {
		err := hub.Broadcast(context.Background(), bar.Snapshot{
			Status:   bar.StatusConfigured,
			Visible:  true,
			Focused:  tags.Tag(1),
			Primary:  1,
			Views:    []tags.Mask{1, 2},
			Occupied: 3,
			Width:    440,
			Height:   80,
		})
		if err != nil {
			t.Fatal(err)
		}

		res := do(t, http.MethodGet, ts.URL+"/v1/state", "")
		var state State
		if err := json.NewDecoder(res.Body).Decode(&state); err != nil {
			t.Fatal(err)
		}

		want := State{
			Session:    s.Session(),
			Status:     "configured",
			Configured: true,
			Visible:    true,
			Focused:    2,
			Primary:    1,
			Views:      []uint32{1, 2},
			Occupied:   3,
			Width:      440,
			Height:     80,
		}
		if !reflect.DeepEqual(state, want) {
			t.Fatalf("expected %+v, got %+v", want, state)
		}
	})
}

func TestGetBuild(t *testing.T) {
	_, _, _, ts := newTestServer(t)

	res := do(t, http.MethodGet, ts.URL+"/v1/build", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var info build.Build
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "test" {
		t.Fatalf("expected version test, got %+v", info)
	}
}

func TestPutTags(t *testing.T) {
	_, sender, _, ts := newTestServer(t)

	res := do(t, http.MethodPut, ts.URL+"/v1/tags", `{"output":"DP-1","focused":4,"views":[1,4],"urgent":1}`)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.StatusCode)
	}

	want := []bar.Msg{bar.TagUpdate{
		Output:  "DP-1",
		Focused: mask(4),
		Views:   []byte{1, 0, 0, 0, 4, 0, 0, 0},
		Urgent:  mask(1),
	}}
	if got := sender.Msgs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestPutTagsDefaultOutput(t *testing.T) {
	_, sender, _, ts := newTestServer(t)

	res := do(t, http.MethodPut, ts.URL+"/v1/tags", `{"focused":0}`)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.StatusCode)
	}

	want := []bar.Msg{bar.TagUpdate{Output: DefaultOutput, Focused: mask(0)}}
	if got := sender.Msgs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestPutTagsEmpty(t *testing.T) {
	_, sender, _, ts := newTestServer(t)

	res := do(t, http.MethodPut, ts.URL+"/v1/tags", `{"output":"DP-1"}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if len(sender.Msgs()) != 0 {
		t.Fatalf("expected no messages")
	}
}

func TestPostVisibility(t *testing.T) {
	_, sender, _, ts := newTestServer(t)

	for _, body := range []string{`{"visible":true}`, `{"visible":false}`} {
		res := do(t, http.MethodPost, ts.URL+"/v1/visibility", body)
		if res.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", res.StatusCode)
		}
	}

	want := []bar.Msg{bar.Show{}, bar.Hide{}}
	if got := sender.Msgs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestClosedBar(t *testing.T) {
	_, sender, _, ts := newTestServer(t)
	sender.err = bar.ErrClosed

	res := do(t, http.MethodPost, ts.URL+"/v1/visibility", `{"visible":true}`)
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
}

func TestEvents(t *testing.T) {
	_, _, hub, ts := newTestServer(t)

	if err := hub.Broadcast(context.Background(), bar.Snapshot{Status: bar.StatusConfigured, Width: 440}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event stream, got %q", ct)
	}

	scanner := bufio.NewScanner(res.Body)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}

		var state State
		if err := json.Unmarshal([]byte(data), &state); err != nil {
			t.Fatal(err)
		}
		if state.Status != "configured" || state.Width != 440 {
			t.Fatalf("unexpected state %+v", state)
		}
		return
	}
	t.Fatalf("stream ended without data: %v", scanner.Err())
}

func TestServe(t *testing.T) {
	s := New(&fakeSender{}, bus.NewHub[bar.Snapshot]())

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() { errC <- s.Serve(ctx, "127.0.0.1:0", build.Build{Version: "test"}) }()

	cancel()
	select {
	case err := <-errC:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
