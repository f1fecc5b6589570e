package pipeline

// PREDICTOR_MAX is the saturated value of the two-bit counter.
const PREDICTOR_MAX = 3

// Predictor is a two-bit saturating counter shared by every branch.
// Counts 0 and 1 predict not taken; 2 and 3 predict taken.
type Predictor struct {
	Counter uint8
	Initial uint8 // Counter value restored by Reset.
}

// NewPredictor creates a predictor starting at initial, clamped to 0..3.
func NewPredictor(initial uint8) Predictor {
	initial = min(initial, PREDICTOR_MAX)
	return Predictor{Counter: initial, Initial: initial}
}

// Predict returns true if the next branch is predicted taken.
func (bp *Predictor) Predict() bool {
	return bp.Counter >= 2
}

// Update trains the counter with a resolved outcome.
func (bp *Predictor) Update(taken bool) {
	switch {
	case taken && bp.Counter < PREDICTOR_MAX:
		bp.Counter++
	case !taken && bp.Counter > 0:
		bp.Counter--
	}
}

// Reset restores the initial counter.
func (bp *Predictor) Reset() {
	bp.Counter = min(bp.Initial, PREDICTOR_MAX)
}
