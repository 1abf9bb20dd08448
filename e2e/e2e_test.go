package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

// motionFrames builds a looping two-frame script whose frames always
// differ, so the pipeline sees continuous motion and stays in active
// capture. The alternating timestamps keep the repeat-frame skip off.
func motionFrames(t *testing.T) []capture.MockFrame {
	t.Helper()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))
	t.Cleanup(func() {
		black.Close()
		white.Close()
	})

	return []capture.MockFrame{
		{Mat: &black, Timestamp: 1.0},
		{Mat: &white, Timestamp: 2.0},
	}
}

// waitState polls the pipeline snapshot until cond holds or the
// deadline passes.
func waitState(t *testing.T, a *app.App, timeout time.Duration, cond func(app.State) bool) app.State {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		st := a.State()
		if cond(st) {
			return st
		}
		if time.Now().After(deadline) {
			t.Fatalf("state condition not met before deadline, last state: gesture=%q focused=%q", st.Gesture, st.FocusedID)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	cfg := config.Default()
	cfg.Plugins.Dir = filepath.Join(tmpDir, "plugins")

	application, err := app.New(cfg, s)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	mockDetector := detector.NewMockDetector()
	application.SetDetector(mockDetector)
	application.SetWebcam(capture.NewMockCamera(motionFrames(t), true))

	srv := server.New(server.Config{Store: s, App: application})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	var objectID string
	t.Run("CreateObject", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/objects",
			"application/json",
			strings.NewReader(`{"name": "Front Door", "position": {"x": 0, "y": 0, "z": 0}, "normal": {"x": 0, "y": 0, "z": 1}, "width": 2, "height": 3}`),
		)
		if err != nil {
			t.Fatalf("create object error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var created struct {
			ID string `json:"id"`
		}
		json.NewDecoder(resp.Body).Decode(&created)
		objectID = created.ID

		if application.Registry().Len() != 1 {
			t.Errorf("registry has %d objects, want 1", application.Registry().Len())
		}
	})

	t.Run("BindFeedback", func(t *testing.T) {
		// The plugin is not installed; the binding is still accepted and
		// dispatch quietly skips it.
		resp, err := client.Post(
			ts.URL+"/api/bindings",
			"application/json",
			strings.NewReader(`{"event": "grab", "plugin_name": "audio-cue", "action_name": "play"}`),
		)
		if err != nil {
			t.Fatalf("create binding error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()

	t.Run("GrabFocusesObject", func(t *testing.T) {
		mockDetector.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

		st := waitState(t, application, 5*time.Second, func(st app.State) bool {
			return st.FocusedID == objectID
		})
		if st.FocusedName != "Front Door" {
			t.Errorf("focused name = %q, want %q", st.FocusedName, "Front Door")
		}
	})

	t.Run("ReleaseClearsFocus", func(t *testing.T) {
		mockDetector.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

		waitState(t, application, 5*time.Second, func(st app.State) bool {
			return st.FocusedID == ""
		})
	})

	t.Run("EventLogAttributed", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/log")
		if err != nil {
			t.Fatalf("get log error = %v", err)
		}
		defer resp.Body.Close()

		var logResp struct {
			Events []struct {
				Event    string `json:"event"`
				ObjectID string `json:"object_id"`
			} `json:"events"`
		}
		json.NewDecoder(resp.Body).Decode(&logResp)

		if len(logResp.Events) < 2 {
			t.Fatalf("expected at least 2 log entries, got %d", len(logResp.Events))
		}
		if logResp.Events[0].Event != "release" {
			t.Errorf("newest event = %q, want %q", logResp.Events[0].Event, "release")
		}
		if logResp.Events[0].ObjectID != objectID {
			t.Errorf("release object = %q, want %q", logResp.Events[0].ObjectID, objectID)
		}
		if logResp.Events[1].Event != "grab" {
			t.Errorf("second event = %q, want %q", logResp.Events[1].Event, "grab")
		}
	})

	t.Run("StateEndpoint", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/state")
		if err != nil {
			t.Fatalf("get state error = %v", err)
		}
		defer resp.Body.Close()

		var state struct {
			Paused  bool   `json:"paused"`
			Gesture string `json:"gesture"`
			Camera  struct {
				Distance float64 `json:"distance"`
			} `json:"camera"`
		}
		json.NewDecoder(resp.Body).Decode(&state)

		if state.Paused {
			t.Error("expected unpaused state")
		}
		if state.Camera.Distance <= 0 {
			t.Errorf("camera distance = %f, expected positive", state.Camera.Distance)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after pipeline operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_PauseResume(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	if err := s.Objects().Create(scene.Object{
		ID: "door", Name: "Front Door",
		Normal: mgl64.Vec3{0, 0, 1}, Width: 2, Height: 3,
	}); err != nil {
		t.Fatalf("seed object error = %v", err)
	}

	cfg := config.Default()
	cfg.Plugins.Dir = filepath.Join(tmpDir, "plugins")

	application, err := app.New(cfg, s)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	mockDetector := detector.NewMockDetector()
	application.SetDetector(mockDetector)
	application.SetWebcam(capture.NewMockCamera(motionFrames(t), true))

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()

	mockDetector.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})
	waitState(t, application, 5*time.Second, func(st app.State) bool {
		return st.FocusedID == "door"
	})

	// Pausing mid-hold acts like the hand leaving the view: the label
	// drops but the focused object is kept.
	application.SetPaused(true)
	st := waitState(t, application, 5*time.Second, func(st app.State) bool {
		return st.Paused && st.Gesture == gesture.LabelNoActive
	})
	if st.FocusedID != "door" {
		t.Errorf("focused = %q, want %q to survive pause", st.FocusedID, "door")
	}

	// The fist is still scripted, so resuming re-triggers the grab.
	application.SetPaused(false)
	waitState(t, application, 5*time.Second, func(st app.State) bool {
		return !st.Paused && st.Gesture != gesture.LabelNoActive
	})

	count, err := s.Events().Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count < 2 {
		t.Errorf("expected at least 2 logged events after re-grab, got %d", count)
	}

	if !application.IsPaused() {
		v, err := s.Settings().Get("paused")
		if err != nil {
			t.Fatalf("Get(paused) error = %v", err)
		}
		if v != "false" {
			t.Errorf("persisted paused = %q, want %q", v, "false")
		}
	}
}

func TestE2E_SceneSurvivesRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}

	srv := server.New(server.Config{Store: s})
	ts := httptest.NewServer(srv)

	resp, err := ts.Client().Post(
		ts.URL+"/api/objects",
		"application/json",
		strings.NewReader(`{"name": "Wall Screen", "position": {"x": 3, "y": 1, "z": 0}, "normal": {"x": -1, "y": 0, "z": 0}, "width": 4, "height": 2.5}`),
	)
	if err != nil {
		t.Fatalf("create object error = %v", err)
	}
	resp.Body.Close()

	ts.Close()
	s.Close()

	// A fresh app over the same database loads the object back into
	// the scene.
	s2, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("reopen store error = %v", err)
	}
	defer s2.Close()

	cfg := config.Default()
	cfg.Plugins.Dir = filepath.Join(tmpDir, "plugins")

	application, err := app.New(cfg, s2)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	if application.Registry().Len() != 1 {
		t.Fatalf("registry has %d objects after restart, want 1", application.Registry().Len())
	}

	objects := application.Registry().List()
	if objects[0].Name != "Wall Screen" {
		t.Errorf("object name = %q, want %q", objects[0].Name, "Wall Screen")
	}
}
