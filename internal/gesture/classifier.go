package gesture

import "github.com/ayusman/hologram/internal/detector"

// ExtendedFingers counts the digits of hand that are stretched out. A digit
// is extended when its tip is more than ratio times as far from the wrist
// as its proximal joint. Distances are planar, so the test does not depend
// on how large the hand appears.
func ExtendedFingers(hand *detector.HandLandmarks, ratio float64) int {
	count := 0
	for i := 0; i < detector.NumDigits; i++ {
		tip := hand.Span(detector.Wrist, detector.Fingertips[i])
		joint := hand.Span(detector.Wrist, detector.ProximalJoints[i])
		if tip > joint*ratio {
			count++
		}
	}
	return count
}

// Classify is ExtendedFingers for a hand that may be absent. ok is false
// when there is no hand to classify.
func Classify(hand *detector.HandLandmarks, ratio float64) (fingers int, ok bool) {
	if hand == nil {
		return 0, false
	}
	return ExtendedFingers(hand, ratio), true
}
