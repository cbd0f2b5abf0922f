package models

import "github.com/chewxy/math32"

// Softmax converts classifier logits to a probability distribution. The
// maximum logit is subtracted first for numerical stability.
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}

	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	probs := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		probs[i] = math32.Exp(v - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Top1 returns the index and probability of the most likely class.
func Top1(probs []float32) (int, float32) {
	best := -1
	var bestProb float32
	for i, p := range probs {
		if best == -1 || p > bestProb {
			best = i
			bestProb = p
		}
	}
	return best, bestProb
}
