package bench

import (
	"fmt"
	"math"
)

// Efficacy quantifies how much a mitigated run improved over an unmitigated
// one against the ideal outcome, using total variation distance and
// target-state population.
type Efficacy struct {
	TVDUnmitigated  float64
	TVDMitigated    float64
	TVDReductionPct float64
	PopIdeal        float64
	PopUnmitigated  float64
	PopMitigated    float64
	PopIncreasePct  float64
}

// TotalVariationDistance computes 0.5 * sum |P(a) - P(b)| over the union of
// observed bitstrings. Counts are normalized to probabilities first.
func TotalVariationDistance(a, b map[string]int) float64 {
	totalA, totalB := totalShots(a), totalShots(b)
	if totalA == 0 || totalB == 0 {
		return 0
	}
	states := map[string]bool{}
	for s := range a {
		states[s] = true
	}
	for s := range b {
		states[s] = true
	}
	tvd := 0.0
	for s := range states {
		pa := float64(a[s]) / float64(totalA)
		pb := float64(b[s]) / float64(totalB)
		tvd += math.Abs(pa - pb)
	}
	return tvd / 2
}

// CompareCounts computes mitigation efficacy from raw counts. Target states
// are those with non-zero probability in the ideal distribution.
func CompareCounts(ideal, unmitigated, mitigated map[string]int) (Efficacy, error) {
	nIdeal, nUnmit, nMit := totalShots(ideal), totalShots(unmitigated), totalShots(mitigated)
	if nIdeal == 0 || nUnmit == 0 || nMit == 0 {
		return Efficacy{}, fmt.Errorf("efficacy comparison needs non-empty counts for ideal, unmitigated, and mitigated runs")
	}

	e := Efficacy{
		TVDUnmitigated: TotalVariationDistance(ideal, unmitigated),
		TVDMitigated:   TotalVariationDistance(ideal, mitigated),
	}
	if e.TVDUnmitigated > 1e-9 {
		e.TVDReductionPct = (e.TVDUnmitigated - e.TVDMitigated) / e.TVDUnmitigated * 100
	}

	for state, count := range ideal {
		if count == 0 {
			continue
		}
		e.PopIdeal += float64(count) / float64(nIdeal)
		e.PopUnmitigated += float64(unmitigated[state]) / float64(nUnmit)
		e.PopMitigated += float64(mitigated[state]) / float64(nMit)
	}
	if e.PopUnmitigated > 1e-9 {
		e.PopIncreasePct = (e.PopMitigated - e.PopUnmitigated) / e.PopUnmitigated * 100
	}
	return e, nil
}

func totalShots(counts map[string]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
