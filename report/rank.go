package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// rankAbsDesc ranks values by descending absolute value: rank 1 is the
// largest magnitude. Tied values receive the average of the 1-based positions
// they occupy, so ranks are not necessarily integers.
func rankAbsDesc(values []decimal.Decimal) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]].Abs().Cmp(values[idx[b]].Abs()) > 0
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]].Abs().Cmp(values[idx[i]].Abs()) == 0 {
			j++
		}
		// Average of the 1-based positions i+1 .. j+1.
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
