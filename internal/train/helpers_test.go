package train

import (
	"fmt"

	"github.com/leapstack-labs/leapmt/pkg/core"
)

func numberedPairs(n int) []core.TranslationPair {
	out := make([]core.TranslationPair, n)
	for i := range out {
		out[i] = core.TranslationPair{
			MarathiText: fmt.Sprintf("वाक्य %d", i),
			EnglishText: fmt.Sprintf("sentence %d", i),
		}
	}
	return out
}
