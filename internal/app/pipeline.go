package app

import (
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/store"
)

// loopState is the per-run bookkeeping of the pipeline goroutine. It is
// only ever touched from that goroutine.
type loopState struct {
	ticker     *time.Ticker
	active     bool
	lastMotion time.Time
	lastStamp  float64
	haveStamp  bool
	lastKind   gesture.Kind
	label      string
	hands      int
	inserted   int
}

func newLoopState() *loopState {
	return &loopState{
		lastMotion: time.Now(),
		lastKind:   gesture.KindIdle,
		label:      gesture.LabelNoActive,
	}
}

// run is the pipeline loop. Frames are pulled on a ticker whose rate
// follows the idle/active capture mode; the focus animation is advanced
// with measured wall-clock dt so its speed does not depend on the rate.
func (a *App) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ls := newLoopState()
	ls.ticker = time.NewTicker(a.idleInterval())
	defer ls.ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ls.ticker.C:
			dt := now.Sub(lastTick).Seconds()
			lastTick = now
			a.pass(ls, now, dt)
		}
	}
}

// pass executes one pipeline iteration at time now, dt seconds after
// the previous one. The focus animation ticks every pass, even when the
// frame was skipped, so in-flight camera moves keep going.
func (a *App) pass(ls *loopState, now time.Time, dt float64) {
	ev, ok := a.nextEvent(ls, now)
	if ok {
		a.applyEvent(ls, ev)
	}

	a.controller.Tick(dt)
	a.publish(a.snapshot(ls))
}

// applyEvent feeds one gesture event through the camera controller and
// records discrete kind transitions. The object attributed to a release
// is the one that was focused before the event, since the release
// itself clears the focus.
func (a *App) applyEvent(ls *loopState, ev gesture.Event) {
	before := a.focusedID()
	a.controller.HandleEvent(ev)

	if ev.Kind != ls.lastKind {
		objectID := a.focusedID()
		if ev.Kind == gesture.KindRelease {
			objectID = before
		}
		a.recordEvent(ls, ev, objectID)
	}
	ls.lastKind = ev.Kind
	ls.label = ev.Label
}

// nextEvent reads and processes one frame, returning the gesture event
// for this pass. ok is false when there was nothing to process: a read
// failure, a repeated frame, or idle capture mode.
func (a *App) nextEvent(ls *loopState, now time.Time) (gesture.Event, bool) {
	if a.IsPaused() {
		// Paused behaves like the hand leaving the view: tracker state
		// resets and the label drops to "no active gesture". A focused
		// object stays focused until an open palm after resume.
		ls.hands = 0
		return a.tracker.Process(nil, a.controller.PreviewActive()), true
	}

	frame, stamp, err := a.webcam.ReadFrame()
	if err != nil {
		logger.Error("frame read failed", zap.Error(err))
		return gesture.Event{}, false
	}
	defer frame.Close()

	// The device repeats its last frame when polled faster than it
	// captures; an unchanged timestamp means nothing new to look at.
	if ls.haveStamp && stamp == ls.lastStamp {
		return gesture.Event{}, false
	}
	ls.lastStamp = stamp
	ls.haveStamp = true

	a.publishFrame(frame)

	moved, _ := a.motion.Detect(frame)
	if moved {
		ls.lastMotion = now
		if !ls.active {
			a.enterActive(ls)
		}
	} else if ls.active && now.Sub(ls.lastMotion) > a.idleAfter() {
		a.enterIdle(ls)
	}

	if !ls.active {
		return gesture.Event{}, false
	}

	hands, err := a.det.Detect(frame)
	if err != nil {
		logger.Error("hand detection failed", zap.Error(err))
		return gesture.Event{}, false
	}
	ls.hands = len(hands)

	return a.tracker.Process(hands, a.controller.PreviewActive()), true
}

// enterActive raises the capture rate after motion.
func (a *App) enterActive(ls *loopState) {
	ls.active = true
	a.webcam.SetFPS(a.cfg.Pipeline.ActiveFPS)
	if ls.ticker != nil {
		ls.ticker.Reset(a.activeInterval())
	}
	logger.Debug("motion detected, active capture")
}

// enterIdle drops the capture rate after the motion timeout. Tracker
// state is deliberately kept: a hand held perfectly still through the
// timeout must not re-trigger its gesture on wake.
func (a *App) enterIdle(ls *loopState) {
	ls.active = false
	ls.hands = 0
	a.webcam.SetFPS(a.cfg.Pipeline.IdleFPS)
	if ls.ticker != nil {
		ls.ticker.Reset(a.idleInterval())
	}
	logger.Debug("no motion, idle capture")
}

// recordEvent logs a discrete gesture transition and dispatches bound
// feedback. Continuous kinds (rotate, idle) are not recorded.
func (a *App) recordEvent(ls *loopState, ev gesture.Event, objectID string) {
	if !store.IsBindableEvent(string(ev.Kind)) {
		return
	}

	if err := a.db.Events().Insert(string(ev.Kind), ev.Label, objectID); err != nil {
		logger.Error("gesture log insert failed", zap.Error(err))
	}
	ls.inserted++
	if ls.inserted%pruneEvery == 0 {
		if err := a.db.Events().Prune(eventLogKeep); err != nil {
			logger.Error("gesture log prune failed", zap.Error(err))
		}
	}

	// Plugins may take seconds; never on the frame loop.
	go a.feedback.Dispatch(string(ev.Kind), ev.Label, objectID)
}

// publishFrame JPEG-encodes the frame for MJPEG consumers. Skipped when
// nobody is watching.
func (a *App) publishFrame(frame *gocv.Mat) {
	a.streamMu.RLock()
	watching := a.streamClients > 0
	a.streamMu.RUnlock()
	if !watching {
		return
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		logger.Error("frame encode failed", zap.Error(err))
		return
	}
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	buf.Close()

	a.streamMu.Lock()
	a.frame = data
	a.frameSeq++
	a.streamMu.Unlock()
}

func (a *App) idleInterval() time.Duration {
	return time.Second / time.Duration(a.cfg.Pipeline.IdleFPS)
}

func (a *App) activeInterval() time.Duration {
	return time.Second / time.Duration(a.cfg.Pipeline.ActiveFPS)
}

func (a *App) idleAfter() time.Duration {
	return time.Duration(a.cfg.Pipeline.IdleAfterMs) * time.Millisecond
}
