package train

import (
	"testing"

	"github.com/leapstack-labs/leapmt/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestEvalSize(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		ratio float64
		want  int
	}{
		{name: "default ratio on 100", n: 100, ratio: 0.95, want: 5},
		{name: "rounds up", n: 21, ratio: 0.95, want: 2},
		{name: "keeps one train pair", n: 2, ratio: 0.1, want: 1},
		{name: "single pair", n: 1, ratio: 0.5, want: 0},
		{name: "empty", n: 0, ratio: 0.95, want: 0},
		{name: "all train", n: 10, ratio: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvalSize(tt.n, tt.ratio))
		})
	}
}

func TestSplit_PartitionsInput(t *testing.T) {
	pairs := numberedPairs(100)
	train, eval := Split(pairs, 0.95, 42)

	assert.Len(t, train, 95)
	assert.Len(t, eval, 5)
	assert.ElementsMatch(t, pairs, append(append([]core.TranslationPair{}, train...), eval...))
}

func TestSplit_Deterministic(t *testing.T) {
	pairs := numberedPairs(50)

	train1, eval1 := Split(pairs, 0.8, 42)
	train2, eval2 := Split(pairs, 0.8, 42)
	assert.Equal(t, train1, train2)
	assert.Equal(t, eval1, eval2)

	_, eval3 := Split(pairs, 0.8, 7)
	assert.NotEqual(t, eval1, eval3)
}

func TestSplit_Empty(t *testing.T) {
	train, eval := Split(nil, 0.95, 42)
	assert.Empty(t, train)
	assert.Empty(t, eval)
}
