package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

func createTestBinding(t *testing.T, handler *BindingHandler, event string) bindingResponse {
	t.Helper()

	body := createBindingRequest{
		Event:      event,
		PluginName: "audio-cue",
		ActionName: "play",
		Config:     json.RawMessage(`{"sound":"Pop"}`),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var created bindingResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return created
}

func TestBindingHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	created := createTestBinding(t, handler, "grab")

	if created.ID == "" {
		t.Error("expected a generated binding ID")
	}
	if created.Event != "grab" {
		t.Errorf("expected event 'grab', got %q", created.Event)
	}
	if !created.Enabled {
		t.Error("expected new binding enabled")
	}
	if string(created.Config) != `{"sound":"Pop"}` {
		t.Errorf("expected config round-trip, got %s", created.Config)
	}
}

func TestBindingHandler_Create_DuplicateEvent(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	createTestBinding(t, handler, "grab")

	body := `{"event":"grab","plugin_name":"notify","action_name":"show"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestBindingHandler_Create_Invalid(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	tests := []struct {
		name string
		body string
	}{
		{"missing event", `{"plugin_name":"audio-cue","action_name":"play"}`},
		{"unbindable event", `{"event":"rotate","plugin_name":"audio-cue","action_name":"play"}`},
		{"unknown event", `{"event":"wave","plugin_name":"audio-cue","action_name":"play"}`},
		{"missing plugin", `{"event":"grab","action_name":"play"}`},
		{"missing action", `{"event":"grab","plugin_name":"audio-cue"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bindings", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestBindingHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	createTestBinding(t, handler, "grab")
	createTestBinding(t, handler, "zoom_in")

	req := httptest.NewRequest(http.MethodGet, "/api/bindings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listBindingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Bindings) != 2 {
		t.Errorf("expected 2 bindings, got %d", len(response.Bindings))
	}
}

func TestBindingHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	created := createTestBinding(t, handler, "release")

	body := `{"action_name":"chime","enabled":false}`
	req := httptest.NewRequest(http.MethodPut, "/api/bindings/"+created.ID, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var updated bindingResponse
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if updated.ActionName != "chime" {
		t.Errorf("expected action 'chime', got %q", updated.ActionName)
	}
	if updated.Enabled {
		t.Error("expected binding disabled")
	}
	// Unset fields keep their values.
	if updated.PluginName != "audio-cue" {
		t.Errorf("expected plugin unchanged, got %q", updated.PluginName)
	}
}

func TestBindingHandler_Update_EventConflict(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	createTestBinding(t, handler, "grab")
	other := createTestBinding(t, handler, "release")

	body := `{"event":"grab"}`
	req := httptest.NewRequest(http.MethodPut, "/api/bindings/"+other.ID, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestBindingHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	created := createTestBinding(t, handler, "zoom_out")

	req := httptest.NewRequest(http.MethodDelete, "/api/bindings/"+created.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	// The event slot is free again.
	createTestBinding(t, handler, "zoom_out")
}

func TestBindingHandler_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	req := httptest.NewRequest(http.MethodDelete, "/api/bindings/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
