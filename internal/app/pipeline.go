package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/gesture"
	"github.com/ayusman/spellcast/internal/notify"
	"github.com/ayusman/spellcast/internal/plugin"
)

var (
	labelColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	pinchColor = color.RGBA{R: 255, G: 200, B: 0, A: 0}
)

// runPipeline reads one frame per tick at the configured frame rate until
// stop is closed.
//
// Per frame:
// 1. Read and mirror a frame (the camera mirrors)
// 2. Detect hands and take the first hand's finger tips
// 3. Step the recognizer
// 4. Dispatch an accepted combo and notify label listeners
// 5. Annotate and publish the frame for the MJPEG stream
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(frameInterval(a.params.FrameRate))
	defer ticker.Stop()

	wasEnabled := true
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		enabled := a.IsEnabled()
		if !enabled {
			if wasEnabled {
				// Drop motion and any held combo while paused.
				a.recognizer.Reset()
				a.publishLabel(a.recognizer.Current().Combo)
			}
			wasEnabled = false
			continue
		}
		wasEnabled = true

		if err := a.processFrame(); err != nil {
			a.log.Debug("frame skipped", zap.Error(err))
		}
	}
}

func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = gesture.DefaultFrameRate
	}
	return time.Duration(float64(time.Second) / fps)
}

// processFrame runs one camera frame through detection and recognition.
func (a *App) processFrame() error {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		return err
	}
	defer frame.Close()

	hands, err := a.detector.Detect(frame)
	if err != nil {
		// A failed detection counts as no hand for this frame.
		a.log.Warn("hand detection failed", zap.Error(err))
		hands = nil
	}

	res := a.processHands(hands, frame.Cols(), frame.Rows())
	a.publishFrame(frame, res)
	return nil
}

// processHands steps the recognizer with the first hand found in a
// width x height frame and handles the outcome.
func (a *App) processHands(hands []detector.HandLandmarks, width, height int) gesture.Result {
	return a.step(detector.FirstHand(hands, width, height))
}

func (a *App) step(tips *detector.Fingertips) gesture.Result {
	res := a.recognizer.Step(tips)

	if res.Accepted != gesture.ComboNone {
		a.dispatch(res.Accepted, a.now())
	}
	a.publishLabel(res.Published)
	return res
}

// publishLabel notifies listeners when the published combo changed.
func (a *App) publishLabel(combo gesture.Combo) {
	if combo == a.lastLabel {
		return
	}
	a.lastLabel = combo

	at := a.now()
	for _, fn := range a.labelListeners() {
		fn(combo.String(), at)
	}
}

// dispatch records an accepted combo and hands it to the action plugin and
// webhook. Plugin and webhook calls run off the pipeline goroutine.
func (a *App) dispatch(combo gesture.Combo, at time.Time) {
	label := combo.String()
	a.log.Info("combo accepted", zap.String("gesture", label))

	var eventID string
	if a.store != nil {
		event, err := a.store.Events().Record(label, at)
		if err != nil {
			a.log.Error("failed to record gesture event", zap.String("gesture", label), zap.Error(err))
		} else {
			eventID = event.ID
		}
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.executeAction(label, at)
		a.postWebhook(notify.Payload{ID: eventID, Gesture: label, Timestamp: at})
	}()
}

// executeAction runs the enabled action bound to label, if any.
func (a *App) executeAction(label string, at time.Time) {
	if a.store == nil || a.plugins == nil {
		return
	}

	action, err := a.store.Actions().GetByGesture(label)
	if err != nil {
		a.log.Error("failed to look up action", zap.String("gesture", label), zap.Error(err))
		return
	}
	if action == nil || !action.Enabled {
		return
	}

	p, err := a.plugins.Resolve(action.PluginName, action.ActionName)
	if err != nil {
		a.log.Warn("action plugin unavailable",
			zap.String("gesture", label),
			zap.String("plugin", action.PluginName),
			zap.String("action", action.ActionName),
			zap.Error(err))
		return
	}

	resp, err := a.executor.Execute(context.Background(), p, &plugin.Request{
		Action:    action.ActionName,
		Gesture:   label,
		Timestamp: at.UnixMilli(),
		Config:    action.Config,
	})
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		a.log.Error("action failed",
			zap.String("gesture", label),
			zap.String("plugin", action.PluginName),
			zap.Error(err))
		return
	}

	a.log.Info("action executed",
		zap.String("gesture", label),
		zap.String("plugin", action.PluginName),
		zap.String("action", action.ActionName))
}

func (a *App) postWebhook(p notify.Payload) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Notify(context.Background(), p); err != nil {
		a.log.Warn("webhook failed", zap.String("gesture", p.Gesture), zap.Error(err))
	}
}

// publishFrame draws the recognizer status onto frame and stores it as the
// latest JPEG.
func (a *App) publishFrame(frame *gocv.Mat, res gesture.Result) {
	if frame.Empty() {
		return
	}

	if label := res.Published.String(); label != "" {
		gocv.PutText(frame, label, image.Pt(10, 40), gocv.FontHersheySimplex, 1.0, labelColor, 2)
	}
	if res.Pinching {
		gocv.PutText(frame, "PINCHING", image.Pt(10, frame.Rows()-20), gocv.FontHersheySimplex, 0.8, pinchColor, 2)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		a.log.Debug("failed to encode frame", zap.Error(err))
		return
	}
	data := bytes.Clone(buf.GetBytes())
	buf.Close()

	a.frameMu.Lock()
	a.frameBuf = data
	a.frameSeq++
	a.frameMu.Unlock()
}
