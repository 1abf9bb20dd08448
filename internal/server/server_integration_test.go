package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestAPI_ObjectWorkflow(t *testing.T) {
	a, st := newTestApp(t)
	srv := New(Config{Store: st, App: a})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create an object
	createBody := `{"name": "screen", "position": {"x": 0, "y": 1, "z": -4}, "normal": {"x": 0, "y": 0, "z": 1}, "width": 3, "height": 2}`
	resp, err := client.Post(ts.URL+"/api/objects", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/objects error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Name != "screen" {
		t.Errorf("created name = %s, want screen", created.Name)
	}

	// The live registry picked the object up.
	if _, ok := a.Registry().Get(created.ID); !ok {
		t.Error("expected created object in the live registry")
	}

	// 2. List objects
	resp, _ = client.Get(ts.URL + "/api/objects")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/objects status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Objects []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"objects"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Objects) != 1 {
		t.Fatalf("len(objects) = %d, want 1", len(listed.Objects))
	}

	// 3. Get single object
	resp, _ = client.Get(ts.URL + "/api/objects/" + created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/objects/%s status = %d, want %d", created.ID, resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 4. Delete object
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/objects/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 5. Verify deleted everywhere
	resp, _ = client.Get(ts.URL + "/api/objects/" + created.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()

	if _, ok := a.Registry().Get(created.ID); ok {
		t.Error("expected deleted object gone from the live registry")
	}
}

func TestAPI_BindingWorkflow(t *testing.T) {
	_, st := newTestApp(t)
	srv := New(Config{Store: st})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	createBody := `{"event": "grab", "plugin_name": "audio-cue", "action_name": "play"}`
	resp, err := client.Post(ts.URL+"/api/bindings", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/bindings error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// Binding the same event again conflicts.
	resp, _ = client.Post(ts.URL+"/api/bindings", "application/json", bytes.NewBufferString(createBody))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate POST status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/bindings/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()
}

func TestWS_StateOnConnect(t *testing.T) {
	a, _ := newTestApp(t)
	srv := New(Config{App: a})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read initial state: %v", err)
	}

	var state struct {
		Paused  bool   `json:"paused"`
		Gesture string `json:"gesture"`
		Camera  struct {
			Distance float64 `json:"distance"`
		} `json:"camera"`
	}
	if err := json.Unmarshal(msg, &state); err != nil {
		t.Fatalf("failed to decode state message: %v", err)
	}

	if state.Gesture != "no active gesture" {
		t.Errorf("gesture = %q, want 'no active gesture'", state.Gesture)
	}
	if state.Camera.Distance != 8.0 {
		t.Errorf("camera distance = %v, want 8", state.Camera.Distance)
	}
}

func TestStream_Headers(t *testing.T) {
	a, _ := newTestApp(t)
	srv := New(Config{App: a})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/x-mixed-replace") {
		t.Errorf("Content-Type = %q, want multipart/x-mixed-replace", contentType)
	}
}
