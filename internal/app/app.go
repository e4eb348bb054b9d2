// Package app drives the gesture recognizer from the camera and dispatches
// accepted combos to the configured sinks.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/spellcast/internal/capture"
	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/gesture"
	"github.com/ayusman/spellcast/internal/notify"
	"github.com/ayusman/spellcast/internal/plugin"
	"github.com/ayusman/spellcast/internal/store"
)

// ErrNoDetector is returned by Start when no hand detector is configured.
var ErrNoDetector = errors.New("no hand detector configured")

// Notifier delivers accepted combos to an outside service.
type Notifier interface {
	Notify(ctx context.Context, p notify.Payload) error
}

// Config holds the collaborators of an App. Camera, Detector and Params are
// required; every other field is optional.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Params   gesture.Params

	Store    *store.Store
	Plugins  *plugin.Manager
	Executor *plugin.Executor
	Notifier Notifier
	Log      *zap.Logger
}

// LabelFunc is called with the published combo label whenever it changes.
// The label is empty when the combo clears.
type LabelFunc func(label string, at time.Time)

// App is the main application that orchestrates the frame pipeline and
// action execution.
type App struct {
	camera     capture.Camera
	detector   detector.Detector
	recognizer *gesture.Recognizer
	params     gesture.Params

	store    *store.Store
	plugins  *plugin.Manager
	executor *plugin.Executor
	notifier Notifier
	log      *zap.Logger

	mu        sync.RWMutex
	enabled   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	listeners []LabelFunc

	// Owned by the pipeline goroutine.
	lastLabel gesture.Combo

	frameMu  sync.RWMutex
	frameBuf []byte
	frameSeq uint64

	// Tracks in-flight dispatch goroutines.
	wg sync.WaitGroup

	now func() time.Time
}

// New creates a new App. Detection starts enabled.
func New(config Config) (*App, error) {
	recognizer, err := gesture.NewRecognizer(config.Params)
	if err != nil {
		return nil, err
	}

	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}

	executor := config.Executor
	if executor == nil {
		executor = plugin.NewExecutor(plugin.DefaultTimeout)
	}

	return &App{
		camera:     config.Camera,
		detector:   config.Detector,
		recognizer: recognizer,
		params:     config.Params,
		store:      config.Store,
		plugins:    config.Plugins,
		executor:   executor,
		notifier:   config.Notifier,
		log:        log.Named("app"),
		enabled:    true,
		now:        time.Now,
	}, nil
}

// SetEnabled enables or disables gesture detection. Disabling drops any
// motion in progress.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
	a.log.Info("detection toggled", zap.Bool("enabled", enabled))
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnLabel registers fn to be called from the pipeline goroutine whenever
// the published combo label changes.
func (a *App) OnLabel(fn LabelFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Current returns the recognizer's latest snapshot. Safe for concurrent use.
func (a *App) Current() gesture.Snapshot {
	return a.recognizer.Current()
}

// Recognizer returns the gesture state machine.
func (a *App) Recognizer() *gesture.Recognizer {
	return a.recognizer
}

// LatestJPEG returns the most recent annotated frame and its sequence
// number. It returns nil before the first frame.
func (a *App) LatestJPEG() ([]byte, uint64) {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.frameBuf, a.frameSeq
}

// Start opens the camera and begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}
	if a.detector == nil {
		return ErrNoDetector
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.Info("detection pipeline started",
		zap.Float64("frame_rate", a.params.FrameRate),
		zap.Int("cooldown_frames", a.recognizer.CooldownFrames()))
	return nil
}

// Stop halts the pipeline, waits for in-flight actions and releases the
// camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		a.log.Warn("failed to close camera", zap.Error(err))
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.Warn("failed to close detector", zap.Error(err))
		}
	}

	a.log.Info("detection pipeline stopped")
}

func (a *App) labelListeners() []LabelFunc {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.listeners
}
