package biosig

import "math"

// DefaultThreshold is the similarity threshold above which two signatures
// are considered the same speaker. Callers may override it per request.
const DefaultThreshold = 0.78

// CanonicalLength is the vector length both signatures are brought to
// before comparison. It matches the default extractor output so current
// signatures compare without resampling; vectors from older or newer
// extractor configurations are interpolated to this length. The policy is
// deterministic and identical for enrollment and verification.
const CanonicalLength = 64

// Comparison is the result of comparing two signatures.
type Comparison struct {
	// Similarity is the cosine similarity in [-1, 1]. For extracted
	// signatures (non-negative correlation structure) values typically
	// fall in [0, 1].
	Similarity float64

	// Distance is the Euclidean distance, >= 0.
	Distance float64
}

// Matches reports whether the comparison clears the given threshold.
// Pass [DefaultThreshold] unless the caller supplied an override.
func (c Comparison) Matches(threshold float64) bool {
	return c.Similarity >= threshold
}

// Compare computes cosine similarity and Euclidean distance between two
// signatures in one pass. Vectors of differing lengths are first brought
// to [CanonicalLength] by linear interpolation.
//
// Compare is symmetric: Compare(a, b) == Compare(b, a).
func Compare(a, b Signature) Comparison {
	va := canonicalize(a.Vector, CanonicalLength)
	vb := canonicalize(b.Vector, CanonicalLength)

	var dot, normA, normB, sqdist float64
	for i := range va {
		x, y := float64(va[i]), float64(vb[i])
		dot += x * y
		normA += x * x
		normB += y * y
		d := x - y
		sqdist += d * d
	}

	var similarity float64
	if normA > 0 && normB > 0 {
		similarity = dot / (math.Sqrt(normA) * math.Sqrt(normB))
		// Clamp to [-1, 1] to absorb floating point error.
		if similarity > 1 {
			similarity = 1
		} else if similarity < -1 {
			similarity = -1
		}
	}

	return Comparison{
		Similarity: similarity,
		Distance:   math.Sqrt(sqdist),
	}
}

// canonicalize resamples a vector to length n by linear interpolation.
// Vectors already at length n are returned unchanged. Empty vectors map
// to the zero vector.
func canonicalize(v []float32, n int) []float32 {
	if len(v) == n {
		return v
	}
	out := make([]float32, n)
	if len(v) == 0 {
		return out
	}
	if len(v) == 1 {
		for i := range out {
			out[i] = v[0]
		}
		return out
	}
	step := float64(len(v)-1) / float64(n-1)
	for i := range out {
		pos := float64(i) * step
		lo := int(pos)
		if lo >= len(v)-1 {
			out[i] = v[len(v)-1]
			continue
		}
		frac := float32(pos - float64(lo))
		out[i] = v[lo]*(1-frac) + v[lo+1]*frac
	}
	return out
}
