// Package app wires capture, hand detection, gesture tracking and the
// orbit camera into the frame pipeline, and exposes its state to UIs.
package app

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/camera"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/store"
)

// settingPaused is the settings key that persists the pause toggle
// across restarts.
const settingPaused = "paused"

// eventLogKeep bounds the gesture log; pruneEvery is how many inserts
// happen between prunes.
const (
	eventLogKeep = 1000
	pruneEvery   = 50
)

// State is a point-in-time snapshot of the pipeline for UI consumers.
type State struct {
	Paused      bool      `json:"paused"`
	Active      bool      `json:"active"`
	HandCount   int       `json:"handCount"`
	Gesture     string    `json:"gesture"`
	FocusedID   string    `json:"focusedId,omitempty"`
	FocusedName string    `json:"focusedName,omitempty"`
	Restoring   bool      `json:"restoring"`
	Camera      PoseState `json:"camera"`
}

// PoseState describes the orbit camera placement.
type PoseState struct {
	Azimuth  float64    `json:"azimuth"`
	Polar    float64    `json:"polar"`
	Distance float64    `json:"distance"`
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
}

// App owns the frame pipeline and every component it feeds.
type App struct {
	cfg config.Config

	db       *store.Store
	registry *scene.Registry

	webcam capture.Camera
	motion *capture.MotionDetector
	det    detector.Detector

	tracker    *gesture.Tracker
	view       *camera.Camera
	animator   *camera.FocusAnimator
	selector   *scene.Selector
	controller *camera.Controller

	plugins  *plugin.Manager
	feedback *plugin.Feedback

	mu        sync.RWMutex
	paused    bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	state     State
	listeners []func(State)

	streamMu      sync.RWMutex
	streamClients int
	frame         []byte
	frameSeq      uint64
}

// New builds the full component graph from the configuration. The scene
// and the pause toggle are loaded from the store.
func New(cfg config.Config, db *store.Store) (*App, error) {
	registry := scene.NewRegistry()
	objects, err := db.Objects().List()
	if err != nil {
		return nil, fmt.Errorf("load scene objects: %w", err)
	}
	registry.Replace(objects)

	view := camera.New(cfg.CameraConfig())
	animator := camera.NewFocusAnimator(view, cfg.AnimatorConfig())
	selector := scene.NewSelector(registry, view, cfg.SceneSelectorConfig())
	controller := camera.NewController(view, animator, selector, cfg.ControllerConfig())

	manager := plugin.NewManager(cfg.Plugins.Dir)
	executor := plugin.NewExecutor(cfg.Plugins.TimeoutMs)

	a := &App{
		cfg:        cfg,
		db:         db,
		registry:   registry,
		webcam:     capture.NewCamera(cfg.Camera),
		motion:     capture.NewMotionDetector(cfg.Pipeline.MotionThreshold),
		tracker:    gesture.NewTracker(cfg.TrackerConfig()),
		view:       view,
		animator:   animator,
		selector:   selector,
		controller: controller,
		plugins:    manager,
		feedback:   plugin.NewFeedback(db.Bindings(), manager, executor),
	}

	if v, err := db.Settings().Get(settingPaused); err == nil {
		a.paused = v == "true"
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load paused setting: %w", err)
	}

	if mp, err := detector.NewMediaPipeDetector(cfg.DetectorConfig()); err == nil {
		a.det = mp
		logger.Info("using mediapipe hand detection")
	} else {
		logger.Warn("mediapipe unavailable, using mock detector", zap.Error(err))
		a.det = detector.NewMockDetector()
	}

	a.state = a.snapshot(newLoopState())
	return a, nil
}

// Start opens the capture device and launches the pipeline goroutine.
// Starting a running app is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.webcam.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.webcam.SetFPS(a.cfg.Pipeline.IdleFPS)

	if err := a.plugins.Discover(); err != nil {
		logger.Warn("plugin discovery failed", zap.Error(err))
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.run(a.stopCh, a.doneCh)

	logger.Info("pipeline started",
		zap.Int("idle_fps", a.cfg.Pipeline.IdleFPS),
		zap.Int("active_fps", a.cfg.Pipeline.ActiveFPS))
	return nil
}

// Stop halts the pipeline and releases capture and detection resources.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	stop, done := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	close(stop)
	<-done

	if err := a.webcam.Close(); err != nil {
		logger.Error("camera close failed", zap.Error(err))
	}
	a.motion.Close()
	if err := a.det.Close(); err != nil {
		logger.Error("detector close failed", zap.Error(err))
	}

	logger.Info("pipeline stopped")
}

// SetPaused toggles gesture detection. The value is persisted so the
// app comes back in the same mode. While paused the tracker sees empty
// frames, as if the hand had left the view.
func (a *App) SetPaused(paused bool) {
	a.mu.Lock()
	if a.paused == paused {
		a.mu.Unlock()
		return
	}
	a.paused = paused
	a.mu.Unlock()

	if err := a.db.Settings().Set(settingPaused, strconv.FormatBool(paused)); err != nil {
		logger.Error("persist paused setting failed", zap.Error(err))
	}
	logger.Info("pause toggled", zap.Bool("paused", paused))
}

// IsPaused reports whether gesture detection is paused.
func (a *App) IsPaused() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.paused
}

// SetDetector replaces the hand detector. Call before Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.det = d
}

// SetWebcam replaces the capture device. Call before Start.
func (a *App) SetWebcam(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.webcam = c
}

// State returns the latest pipeline snapshot.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// OnStateChange registers fn to be called whenever the snapshot
// changes. Callbacks run on the pipeline goroutine and must not block.
func (a *App) OnStateChange(fn func(State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Registry returns the in-memory scene.
func (a *App) Registry() *scene.Registry {
	return a.registry
}

// View returns the orbit camera.
func (a *App) View() *camera.Camera {
	return a.view
}

// PluginManager returns the feedback plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.plugins
}

// Detector returns the active hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.det
}

// Webcam returns the capture device.
func (a *App) Webcam() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.webcam
}

// AddStreamClient registers an MJPEG consumer. Frames are only encoded
// while at least one consumer is connected.
func (a *App) AddStreamClient() {
	a.streamMu.Lock()
	a.streamClients++
	a.streamMu.Unlock()
}

// RemoveStreamClient drops an MJPEG consumer.
func (a *App) RemoveStreamClient() {
	a.streamMu.Lock()
	if a.streamClients > 0 {
		a.streamClients--
	}
	if a.streamClients == 0 {
		a.frame = nil
	}
	a.streamMu.Unlock()
}

// LatestFrame returns the newest JPEG-encoded frame and its sequence
// number. The slice is replaced, never mutated, so callers may hold it.
func (a *App) LatestFrame() ([]byte, uint64) {
	a.streamMu.RLock()
	defer a.streamMu.RUnlock()
	return a.frame, a.frameSeq
}

// publish stores the snapshot and fans it out when it changed.
func (a *App) publish(st State) {
	a.mu.Lock()
	if st == a.state {
		a.mu.Unlock()
		return
	}
	a.state = st
	fns := make([]func(State), len(a.listeners))
	copy(fns, a.listeners)
	a.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// snapshot assembles a State from the live components.
func (a *App) snapshot(ls *loopState) State {
	pos, target := a.view.Pose()
	st := State{
		Paused:    a.IsPaused(),
		Active:    ls.active,
		HandCount: ls.hands,
		Gesture:   ls.label,
		Restoring: a.animator.Restoring(),
		Camera: PoseState{
			Azimuth:  a.view.Azimuth(),
			Polar:    a.view.Polar(),
			Distance: a.view.Distance(),
			Position: [3]float64{pos.X(), pos.Y(), pos.Z()},
			Target:   [3]float64{target.X(), target.Y(), target.Z()},
		},
	}
	if t := a.animator.Target(); t != nil {
		st.FocusedID = t.Handle
		if obj, ok := a.registry.Get(t.Handle); ok {
			st.FocusedName = obj.Name
		}
	}
	return st
}

// focusedID returns the handle of the focused object, or "".
func (a *App) focusedID() string {
	if t := a.animator.Target(); t != nil {
		return t.Handle
	}
	return ""
}
