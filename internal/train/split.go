package train

import (
	"math"
	"math/rand/v2"

	"github.com/leapstack-labs/leapmt/pkg/core"
)

// Split partitions pairs into train and eval sets with a seeded shuffle.
//
// The eval set holds ceil(n*(1-ratio)) pairs, capped so the train set keeps
// at least one pair. The same seed always yields the same partition.
func Split(pairs []core.TranslationPair, ratio float64, seed int64) (train, eval []core.TranslationPair) {
	n := len(pairs)
	if n == 0 {
		return nil, nil
	}

	k := EvalSize(n, ratio)
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)) //nolint:gosec // reproducible shuffle
	perm := rng.Perm(n)

	eval = make([]core.TranslationPair, 0, k)
	train = make([]core.TranslationPair, 0, n-k)
	for i, idx := range perm {
		if i < k {
			eval = append(eval, pairs[idx])
		} else {
			train = append(train, pairs[idx])
		}
	}
	return train, eval
}

// EvalSize returns the number of eval pairs for n pairs at ratio.
func EvalSize(n int, ratio float64) int {
	if n <= 1 {
		return 0
	}
	// Subtract a hair so 100*(1-0.95) does not round up to 6.
	k := int(math.Ceil(float64(n)*(1-ratio) - 1e-9))
	return min(max(k, 0), n-1)
}
