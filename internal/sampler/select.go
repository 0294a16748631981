package sampler

import "math/rand"

// Select downsamples the candidate sets to at most target points, preserving
// the fill/outline proportion within rounding. Sampling is uniform without
// replacement, so repeated calls yield different but statistically similar
// subsets.
func Select(fill, outline []Point, target int, rng *rand.Rand) []Point {
	total := len(fill) + len(outline)
	if target <= 0 {
		return nil
	}
	if total <= target {
		out := make([]Point, 0, total)
		out = append(out, fill...)
		out = append(out, outline...)
		return out
	}

	// The outline quota floors, so the rounding remainder lands on fill.
	// Neither quota can exceed its candidate set while total > target.
	outlineQuota := target * len(outline) / total
	fillQuota := target - outlineQuota

	out := make([]Point, 0, target)
	out = append(out, pick(outline, outlineQuota, rng)...)
	out = append(out, pick(fill, fillQuota, rng)...)
	return out
}

// pick samples n points uniformly without replacement.
func pick(set []Point, n int, rng *rand.Rand) []Point {
	if n >= len(set) {
		out := make([]Point, len(set))
		copy(out, set)
		return out
	}
	out := make([]Point, 0, n)
	for _, i := range rng.Perm(len(set))[:n] {
		out = append(out, set[i])
	}
	return out
}
