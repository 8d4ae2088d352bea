// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStream_ReturnsWhenHubCloses(t *testing.T) {
	hub := NewHub(nil)
	h := NewHandler(hub)

	req := httptest.NewRequest(http.MethodGet, "/rooms/votingRoom/stream", nil)
	req.SetPathValue("room", "votingRoom")
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Stream(w, req)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for hub.Members("votingRoom") != 1 {
		if time.Now().After(deadline) {
			t.Fatal("stream never joined the room")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stream still running after hub closed")
	}
	if !strings.Contains(w.Body.String(), ": joined votingRoom") {
		t.Errorf("unexpected stream body %q", w.Body.String())
	}
}
