package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

const epsilon = 1e-9

func TestClassifyPose_Fist(t *testing.T) {
	hand := detector.FistLandmarks()

	features := ClassifyPose(&hand)

	if !features.IsFist {
		t.Error("expected IsFist for fist landmarks")
	}
	if features.IsOpenPalm {
		t.Error("expected IsOpenPalm false for fist landmarks")
	}
	if features.IsTwoFingerPoint {
		t.Error("expected IsTwoFingerPoint false for fist landmarks")
	}
}

func TestClassifyPose_OpenPalm(t *testing.T) {
	hand := detector.OpenPalmLandmarks()

	features := ClassifyPose(&hand)

	if !features.IsOpenPalm {
		t.Error("expected IsOpenPalm for open palm landmarks")
	}
	if features.IsFist {
		t.Error("expected IsFist false for open palm landmarks")
	}
	if features.IsTwoFingerPoint {
		t.Error("expected IsTwoFingerPoint false for open palm landmarks")
	}
}

func TestClassifyPose_TwoFingerPoint(t *testing.T) {
	hand := detector.TwoFingerPointLandmarks()

	features := ClassifyPose(&hand)

	if !features.IsTwoFingerPoint {
		t.Error("expected IsTwoFingerPoint for two finger point landmarks")
	}
	if features.IsFist {
		t.Error("expected IsFist false for two finger point landmarks")
	}
	if features.IsOpenPalm {
		t.Error("expected IsOpenPalm false for two finger point landmarks")
	}
}

func TestClassifyPose_PinchDistance(t *testing.T) {
	for _, gap := range []float64{0.0, 0.049, 0.08, 0.121} {
		hand := detector.PinchLandmarks(gap)

		features := ClassifyPose(&hand)

		if math.Abs(features.PinchDistance-gap) > epsilon {
			t.Errorf("gap %f: expected pinch distance %f, got %f", gap, gap, features.PinchDistance)
		}
		if features.IsFist || features.IsOpenPalm || features.IsTwoFingerPoint {
			t.Errorf("gap %f: pinch landmarks should match no discrete pose, got %+v", gap, features)
		}
	}
}

func TestClassifyPose_NilHand(t *testing.T) {
	features := ClassifyPose(nil)

	if features != (PoseFeatures{}) {
		t.Errorf("expected zero features for nil hand, got %+v", features)
	}
}

func TestClassifyPose_FistAndPalmMutuallyExclusive(t *testing.T) {
	hands := map[string]detector.HandLandmarks{
		"fist":             detector.FistLandmarks(),
		"open palm":        detector.OpenPalmLandmarks(),
		"two finger point": detector.TwoFingerPointLandmarks(),
		"pinch":            detector.PinchLandmarks(0.08),
	}

	for name, hand := range hands {
		features := ClassifyPose(&hand)
		if features.IsFist && features.IsOpenPalm {
			t.Errorf("%s: IsFist and IsOpenPalm must never both hold", name)
		}
	}
}

func TestClassifyPose_FoldedDistanceRule(t *testing.T) {
	// Translating the hand must not change the classification: the rule
	// compares wrist-relative distances, not absolute positions.
	hand := detector.FistLandmarks()
	moved := hand.Offset(0.2, -0.3)

	features := ClassifyPose(&moved)

	if !features.IsFist {
		t.Error("expected IsFist to survive translation")
	}
	if features.IsOpenPalm {
		t.Error("expected IsOpenPalm false to survive translation")
	}
}
