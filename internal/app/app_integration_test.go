package app

import (
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// newIntegrationApp builds an App with a scripted camera and a mock
// detector, ready for manual pass() driving.
func newIntegrationApp(t *testing.T, frames []capture.MockFrame) (*App, *store.Store, *capture.MockCamera, *detector.MockDetector) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	a, err := New(config.Default(), s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cam := capture.NewMockCamera(frames, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("failed to open mock camera: %v", err)
	}
	a.SetWebcam(cam)

	mock := detector.NewMockDetector()
	a.SetDetector(mock)

	return a, s, cam, mock
}

// blackFrame returns a uniform dark frame. The first one seeds the
// motion baseline; identical successors register no motion.
func blackFrame(t *testing.T) *gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() {
		m.Close()
	})
	return &m
}

func whiteFrame(t *testing.T) *gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(255, 255, 255, 0))
	t.Cleanup(func() {
		m.Close()
	})
	return &m
}

func TestPipeline_DuplicateTimestampSkipped(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	black := blackFrame(t)
	frames := []capture.MockFrame{
		{Mat: black, Timestamp: 1.0},
		{Mat: black, Timestamp: 1.0},
		{Mat: black, Timestamp: 2.0},
	}
	a, _, _, mock := newIntegrationApp(t, frames)
	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

	now := time.Now()
	ls := newLoopState()
	ls.active = true
	ls.lastMotion = now

	a.pass(ls, now, 0.016)
	if got := a.State().Gesture; got != gesture.LabelGrab {
		t.Fatalf("expected %q after first fist frame, got %q", gesture.LabelGrab, got)
	}

	// Same capture timestamp: the frame must not reach the tracker,
	// so the grab label survives instead of decaying to holding.
	a.pass(ls, now.Add(66*time.Millisecond), 0.016)
	if got := a.State().Gesture; got != gesture.LabelGrab {
		t.Errorf("expected repeated frame to be skipped, got label %q", got)
	}

	// A fresh timestamp processes normally.
	a.pass(ls, now.Add(132*time.Millisecond), 0.016)
	if got := a.State().Gesture; got != gesture.LabelHolding {
		t.Errorf("expected %q after second fist frame, got %q", gesture.LabelHolding, got)
	}
}

func TestPipeline_MotionModeSwitching(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	black := blackFrame(t)
	white := whiteFrame(t)
	frames := []capture.MockFrame{
		{Mat: black, Timestamp: 1.0}, // seeds the baseline
		{Mat: white, Timestamp: 2.0}, // black -> white: motion
		{Mat: white, Timestamp: 3.0}, // still, inside the timeout
		{Mat: white, Timestamp: 4.0}, // still, beyond the timeout
	}
	a, _, cam, _ := newIntegrationApp(t, frames)

	cfg := a.cfg.Pipeline
	now := time.Now()
	ls := newLoopState()
	ls.lastMotion = now

	a.pass(ls, now, 0.016)
	if ls.active {
		t.Fatal("expected idle mode while seeding the motion baseline")
	}

	a.pass(ls, now.Add(200*time.Millisecond), 0.2)
	if !ls.active {
		t.Fatal("expected motion to switch the pipeline active")
	}
	if got := cam.FPS(); got != cfg.ActiveFPS {
		t.Errorf("expected capture at %d fps, got %d", cfg.ActiveFPS, got)
	}

	// No motion, but not yet long enough to drop out.
	a.pass(ls, now.Add(1*time.Second), 0.8)
	if !ls.active {
		t.Error("expected pipeline to stay active inside the idle timeout")
	}

	// Past the timeout the pipeline goes back to sleep.
	idleAt := now.Add(200*time.Millisecond + time.Duration(cfg.IdleAfterMs+500)*time.Millisecond)
	a.pass(ls, idleAt, 1.7)
	if ls.active {
		t.Error("expected pipeline to drop to idle after the motion timeout")
	}
	if got := cam.FPS(); got != cfg.IdleFPS {
		t.Errorf("expected capture at %d fps, got %d", cfg.IdleFPS, got)
	}

	st := a.State()
	if st.Active {
		t.Error("expected published state to report idle capture")
	}
	if st.HandCount != 0 {
		t.Errorf("expected hand count reset on idle, got %d", st.HandCount)
	}
}

func TestPipeline_GrabReleaseThroughFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	black := blackFrame(t)
	frames := []capture.MockFrame{
		{Mat: black, Timestamp: 1.0},
		{Mat: black, Timestamp: 2.0},
		{Mat: black, Timestamp: 3.0},
		{Mat: black, Timestamp: 4.0},
	}
	a, s, _, mock := newIntegrationApp(t, frames)
	if err := a.Registry().Add(doorObject()); err != nil {
		t.Fatalf("failed to add object: %v", err)
	}

	now := time.Now()
	ls := newLoopState()
	ls.active = true
	ls.lastMotion = now

	// Frame 1 seeds the motion baseline; the fist is already up.
	mock.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})
	a.pass(ls, now, 0.016)

	st := a.State()
	if st.FocusedID != "door" {
		t.Fatalf("expected grab to focus door, got %q", st.FocusedID)
	}
	if st.FocusedName != "Front Door" {
		t.Errorf("expected focused name %q, got %q", "Front Door", st.FocusedName)
	}
	if st.HandCount != 1 {
		t.Errorf("expected 1 hand, got %d", st.HandCount)
	}

	// Holding the fist produces no further discrete events.
	a.pass(ls, now, 0.016)
	if got := a.State().Gesture; got != gesture.LabelHolding {
		t.Errorf("expected %q while holding, got %q", gesture.LabelHolding, got)
	}

	// Open palm releases and the camera starts restoring.
	mock.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})
	a.pass(ls, now, 0.016)

	st = a.State()
	if st.FocusedID != "" {
		t.Errorf("expected focus cleared after release, got %q", st.FocusedID)
	}
	if st.Gesture != gesture.LabelRelease {
		t.Errorf("expected label %q, got %q", gesture.LabelRelease, st.Gesture)
	}

	entries, err := s.Events().Recent(10)
	if err != nil {
		t.Fatalf("failed to read event log: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected grab and release in the log, got %d entries", len(entries))
	}
	if entries[0].Event != "release" || entries[0].ObjectID != "door" {
		t.Errorf("expected release on door, got %s on %q", entries[0].Event, entries[0].ObjectID)
	}
	if entries[1].Event != "grab" || entries[1].ObjectID != "door" {
		t.Errorf("expected grab on door, got %s on %q", entries[1].Event, entries[1].ObjectID)
	}
}

func TestPipeline_StartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	black := blackFrame(t)
	frames := []capture.MockFrame{
		{Mat: black, Timestamp: 1.0},
		{Mat: black, Timestamp: 2.0},
		{Mat: black, Timestamp: 3.0},
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, err := New(config.Default(), s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	cam := capture.NewMockCamera(frames, true)
	a.SetWebcam(cam)
	a.SetDetector(detector.NewMockDetector())

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !cam.IsOpen() {
		t.Error("expected camera opened by Start")
	}

	// Let the loop take a few passes at the idle rate.
	time.Sleep(500 * time.Millisecond)

	a.Stop()
	if cam.IsOpen() {
		t.Error("expected camera closed by Stop")
	}

	// A second Stop must be a clean no-op.
	a.Stop()
}
