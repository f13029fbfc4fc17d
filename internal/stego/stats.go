package stego

import "math"

// Entropy computes the Shannon entropy of a bit sequence over its empirical
// two-symbol distribution, in bits per symbol. The result is bounded to
// [0,1]: 1.0 for a perfect 50/50 split, 0 for a constant sequence.
//
// An empty sequence returns exactly 0.0; this is a defined edge case, not an
// error. Zero-probability symbols contribute nothing (the p*log2(p) term is
// skipped rather than producing NaN).
func Entropy(bits []uint8) float64 {
	total := len(bits)
	if total == 0 {
		return 0.0
	}

	var ones int
	for _, b := range bits {
		if b == 1 {
			ones++
		}
	}

	p1 := float64(ones) / float64(total)
	p0 := 1 - p1

	var entropy float64
	for _, p := range [2]float64{p0, p1} {
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// ChiSquare computes the Pearson chi-square statistic of a bit sequence
// against the null hypothesis of a uniform 50/50 bit distribution.
//
// The returned value is a raw comparable score. No p-value or critical-value
// normalization is applied; downstream consumers interpret magnitudes
// relative to each other. An empty sequence returns 0.0.
func ChiSquare(bits []uint8) float64 {
	total := len(bits)
	if total == 0 {
		return 0.0
	}

	var ones int
	for _, b := range bits {
		if b == 1 {
			ones++
		}
	}
	zeros := total - ones

	exp := float64(total) / 2.0
	d0 := float64(zeros) - exp
	d1 := float64(ones) - exp
	return d0*d0/exp + d1*d1/exp
}
