// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaushiknetcode/Voting-admin/models"
	"github.com/kaushiknetcode/Voting-admin/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	hub := NewHub(nil)
	h := NewHandler(hub)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /rooms/{room}/stream", h.Stream)
	mux.HandleFunc("POST /rooms/{room}/events/{event}", h.Emit)

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	return srv, hub
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c := NewClient(url, WithReconnect(3, 20*time.Millisecond))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		c.Close(ctx)
	})
	return c
}

func waitReady(t *testing.T, c *Client) {
	t.Helper()
	select {
	case <-c.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("client stream never connected")
	}
}

// recorder collects payloads delivered to a handler.
type recorder struct {
	mu       sync.Mutex
	payloads []string
}

func (r *recorder) handle(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, string(p))
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.payloads...)
}

func TestEmitEndpoint(t *testing.T) {
	srv, hub := newTestServer(t)
	sub := hub.Subscribe("votingRoom", "watcher")
	defer sub.Close()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"valid payload", `{"votingDates":[]}`, http.StatusAccepted},
		{"invalid json", `{nope`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/rooms/votingRoom/events/votingUpdate", strings.NewReader(tt.body))
			require.NoError(t, err)
			req.Header.Set(ClientIDHeader, "tester")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	msg := receive(t, sub)
	assert.Equal(t, "tester", msg.Sender)
	assert.JSONEq(t, `{"votingDates":[]}`, string(msg.Payload))
}

func TestClient_RoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	sender := newTestClient(t, srv.URL)
	listener := newTestClient(t, srv.URL)

	var fromSelf, fromPeer recorder
	sender.On("votingUpdate", fromSelf.handle)
	listener.On("votingUpdate", fromPeer.handle)
	require.NoError(t, sender.Join("votingRoom"))
	require.NoError(t, listener.Join("votingRoom"))
	waitReady(t, sender)
	waitReady(t, listener)

	require.NoError(t, sender.Emit("votingUpdate", []byte(`{"n":1}`)))
	require.NoError(t, sender.Emit("votingUpdate", []byte(`{"n":2}`)))

	want := []string{`{"n":1}`, `{"n":2}`}
	assert.Eventually(t, func() bool { return len(fromPeer.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return len(fromSelf.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, want, fromPeer.snapshot(), "order preserved")
	assert.Equal(t, want, fromSelf.snapshot(), "sender receives its own emit")
}

func TestClient_SendsItsID(t *testing.T) {
	srv, hub := newTestServer(t)
	sub := hub.Subscribe("votingRoom", "watcher")
	defer sub.Close()

	c := NewClient(srv.URL+"/", WithClientID("dashboard-1"), WithHTTPClient(srv.Client()))
	defer c.Close(context.Background())
	assert.Equal(t, "dashboard-1", c.ID())

	require.NoError(t, c.Join("votingRoom"))
	waitReady(t, c)
	require.NoError(t, c.Emit("votingUpdate", []byte(`{"currentDate":"2024-12-05"}`)))

	msg := receive(t, sub)
	assert.Equal(t, "dashboard-1", msg.Sender)
	assert.Equal(t, "votingUpdate", msg.Event)
}

func TestClient_EmitBeforeJoin(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	defer c.Close(context.Background())

	assert.ErrorIs(t, c.Emit("votingUpdate", []byte(`{}`)), errNotJoined)
}

func TestClient_Closed(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL)
	require.NoError(t, c.Join("votingRoom"))
	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))

	assert.ErrorIs(t, c.Emit("votingUpdate", []byte(`{}`)), ErrClosed)
	assert.ErrorIs(t, c.Join("other"), ErrClosed)
}

func TestClient_GivesUpAfterAttempts(t *testing.T) {
	var dials sync.Map
	count := 0
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		count++
		mu.Unlock()
		dials.Store(r.URL.Path, true)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithReconnect(3, 5*time.Millisecond))
	require.NoError(t, c.Join("votingRoom"))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 3
	}, 2*time.Second, 5*time.Millisecond)

	// The stream goroutine exits on its own once the budget is spent.
	done := make(chan struct{})
	go func() {
		c.streamWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream loop did not give up")
	}

	mu.Lock()
	assert.Equal(t, 3, count)
	mu.Unlock()
	_, ok := dials.Load("/rooms/votingRoom/stream")
	assert.True(t, ok)
	c.Close(context.Background())
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	srv, hub := newTestServer(t)
	c := newTestClient(t, srv.URL)
	var got recorder
	c.On("votingUpdate", got.handle)
	require.NoError(t, c.Join("votingRoom"))
	waitReady(t, c)

	srv.CloseClientConnections()

	// The client dials again and rejoins the room.
	assert.Eventually(t, func() bool { return hub.Members("votingRoom") == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		hub.Publish(NewMessage("votingRoom", "votingUpdate", "", []byte(`{}`)))
		return len(got.snapshot()) > 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestStoresSyncOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	ca := newTestClient(t, srv.URL)
	cb := newTestClient(t, srv.URL)

	a, err := store.New(ca, store.NewMemoryPersister())
	require.NoError(t, err)
	b, err := store.New(cb, store.NewMemoryPersister())
	require.NoError(t, err)
	waitReady(t, ca)
	waitReady(t, cb)

	a.AddVotingData(models.VotingInput{
		PlaceID: 1, VotesCount: 100, MaleVoters: 60, FemaleVoters: 40, Date: "2024-12-04",
		SubmittedBy: models.Submitter{UserID: 1, Role: models.RoleAPO, PlaceName: "Headquarter"},
	})

	assert.Eventually(t, func() bool { return len(b.Snapshot().VotingData) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, a.Snapshot().VotingData, b.Snapshot().VotingData)
	assert.Equal(t, 100, b.ZonalData("2024-12-04").TotalVotes)

	b.SetDateActive("2024-12-05", true)
	assert.Eventually(t, func() bool { return a.Snapshot().VotingDates[1].IsActive }, 2*time.Second, 10*time.Millisecond)
}

func TestLocal_SyncsStores(t *testing.T) {
	hub := NewHub(nil)
	la, lb := NewLocal(hub), NewLocal(hub)
	defer la.Close()
	defer lb.Close()

	a, err := store.New(la, store.NewMemoryPersister())
	require.NoError(t, err)
	b, err := store.New(lb, store.NewMemoryPersister())
	require.NoError(t, err)
	assert.Equal(t, 2, hub.Members(store.DefaultRoom))

	a.SetDateActive("2024-12-06", true)
	assert.Eventually(t, func() bool { return b.Snapshot().VotingDates[2].IsActive }, time.Second, 5*time.Millisecond)

	b.Reset()
	assert.Eventually(t, func() bool { return !a.Snapshot().VotingDates[2].IsActive }, time.Second, 5*time.Millisecond)
}
