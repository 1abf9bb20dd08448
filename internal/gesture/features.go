// Package gesture turns per-frame hand landmarks into discrete camera
// control events. Classification is stateless; debouncing and smoothing
// live in the Tracker.
package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// PoseFeatures describes one hand in one frame.
type PoseFeatures struct {
	IsFist           bool
	IsOpenPalm       bool
	IsTwoFingerPoint bool

	// PinchDistance is the image-plane distance between thumb tip and
	// index tip in normalized units. Continuous; thresholding happens in
	// the Tracker.
	PinchDistance float64
}

// fingerExtended reports whether a fingertip sits farther from the wrist in
// the image plane than its pip joint. Wrist-relative distance is a
// depth-invariant proxy that survives the hand moving toward or away from
// the camera.
func fingerExtended(hand *detector.HandLandmarks, tip, pip int) bool {
	wrist := hand.Points[detector.Wrist]
	tipDist := detector.Distance2D(hand.Points[tip], wrist)
	pipDist := detector.Distance2D(hand.Points[pip], wrist)
	return tipDist > pipDist
}

// ClassifyPose computes the pose features for a single hand. A nil hand
// yields the zero PoseFeatures.
//
// The thumb is excluded from the fist and open-palm rules: thumb extension
// reads unreliably across hand orientations and dropping it fixed missed
// release detections.
func ClassifyPose(hand *detector.HandLandmarks) PoseFeatures {
	if hand == nil {
		return PoseFeatures{}
	}

	indexExt := fingerExtended(hand, detector.IndexTip, detector.IndexPIP)
	middleExt := fingerExtended(hand, detector.MiddleTip, detector.MiddlePIP)
	ringExt := fingerExtended(hand, detector.RingTip, detector.RingPIP)
	pinkyExt := fingerExtended(hand, detector.PinkyTip, detector.PinkyPIP)

	return PoseFeatures{
		IsFist:           !indexExt && !middleExt && !ringExt && !pinkyExt,
		IsOpenPalm:       indexExt && middleExt && ringExt && pinkyExt,
		IsTwoFingerPoint: indexExt && middleExt && !ringExt && !pinkyExt,
		PinchDistance: detector.Distance2D(
			hand.Points[detector.ThumbTip],
			hand.Points[detector.IndexTip],
		),
	}
}
