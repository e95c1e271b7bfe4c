package mitigate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SensitivityScore scores a circuit's exposure to backend noise. Derived
// purely from CircuitFeatures and a NoiseProfile; deterministic given both.
type SensitivityScore struct {
	PerQubitScore  map[int]float64
	PerRegionScore map[int]float64 // region id -> score
	Regions        map[int][]int   // region id -> sorted member qubits
	// OverallScore is the maximum per-region score. Worst-hotspot
	// semantics: a single severe hotspot must not be diluted by a quiet
	// remainder of the circuit.
	OverallScore float64
	// Hotspots are the qubits whose score clears the statistical cut
	// mean + sigma*stddev over all touched qubits.
	Hotspots []int
}

// AnalyzeSensitivity combines circuit structure with a noise snapshot into
// per-qubit and per-region mitigation-need scores.
//
// Per-qubit score = IdleWeight*idleFraction + ReadoutWeight*readoutError
// + GateWeight*meanGateError + DecoherenceWeight*(1-exp(-idle/T2)).
// Regions are maximal connected subcircuits where two-qubit gates link the
// involved qubits, bounded by the configured gate-depth window. A region's
// score adds the link contributions (activity x link error) to its member
// qubit scores.
func AnalyzeSensitivity(f *CircuitFeatures, p *NoiseProfile, cfg AnalyzerConfig) (*SensitivityScore, error) {
	if f == nil {
		return nil, fmt.Errorf("nil circuit features")
	}
	if p == nil {
		return nil, fmt.Errorf("nil noise profile")
	}

	score := &SensitivityScore{
		PerQubitScore:  map[int]float64{},
		PerRegionScore: map[int]float64{},
		Regions:        map[int][]int{},
	}

	qubits := f.TouchedQubits()
	for _, q := range qubits {
		score.PerQubitScore[q] = qubitScore(f, p, cfg, q)
	}

	// Regions: connected components over two-qubit links within the
	// gate-depth window.
	members := regionMembers(f, cfg.RegionWindow)
	for id, qs := range members {
		s := 0.0
		inRegion := map[int]bool{}
		for _, q := range qs {
			s += score.PerQubitScore[q]
			inRegion[q] = true
		}
		for link, activity := range f.LinkActivity {
			if !inRegion[link.A] || !inRegion[link.B] {
				continue
			}
			s += cfg.GateWeight * float64(activity) * linkError(f, p, link)
		}
		score.Regions[id] = qs
		score.PerRegionScore[id] = s
		if s > score.OverallScore {
			score.OverallScore = s
		}
	}

	score.Hotspots = hotspots(score.PerQubitScore, cfg.HotspotSigma)
	return score, nil
}

func qubitScore(f *CircuitFeatures, p *NoiseProfile, cfg AnalyzerConfig, q int) float64 {
	idle := f.IdleFraction(q)

	readout := p.ReadoutErrorRate[q]

	var gateErr float64
	if gates := f.PerQubitGates[q]; len(gates) > 0 {
		sum := 0.0
		for _, key := range gates {
			sum += p.GateError(key)
		}
		gateErr = sum / float64(len(gates))
	}

	decoherence := 0.0
	if t2 := p.T2[q]; t2 > 0 && f.TotalDuration > 0 {
		idleDt := idle * float64(f.TotalDuration)
		decoherence = 1 - math.Exp(-idleDt/t2)
	}

	return cfg.IdleWeight*idle +
		cfg.ReadoutWeight*readout +
		cfg.GateWeight*gateErr +
		cfg.DecoherenceWeight*decoherence
}

func linkError(f *CircuitFeatures, p *NoiseProfile, link Link) float64 {
	// Prefer the calibrated entry for the gate actually used on the link.
	for _, key := range f.PerQubitGates[link.A] {
		if key.Q1 >= 0 && NewLink(key.Q0, key.Q1) == link {
			return p.GateError(key)
		}
	}
	return (p.PerQubitErrorRate[link.A] + p.PerQubitErrorRate[link.B]) / 2
}

// regionMembers groups touched qubits into connected components. Links only
// join qubits when the linking gates sit within window depth positions of
// each other; window 0 means the whole circuit is one depth window.
func regionMembers(f *CircuitFeatures, window int) map[int][]int {
	parent := map[int]int{}
	var find func(int) int
	find = func(q int) int {
		if parent[q] != q {
			parent[q] = find(parent[q])
		}
		return parent[q]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if ra > rb {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	qubits := f.TouchedQubits()
	for _, q := range qubits {
		parent[q] = q
	}

	links := make([]Link, 0, len(f.LinkActivity))
	for link := range f.LinkActivity {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].A != links[j].A {
			return links[i].A < links[j].A
		}
		return links[i].B < links[j].B
	})
	for _, link := range links {
		if window > 0 && depthGap(f, link) > window {
			continue
		}
		union(link.A, link.B)
	}

	grouped := map[int][]int{}
	for _, q := range qubits {
		root := find(q)
		grouped[root] = append(grouped[root], q)
	}

	// Re-key with dense region ids in root order for stable output.
	roots := make([]int, 0, len(grouped))
	for root := range grouped {
		roots = append(roots, root)
	}
	sort.Ints(roots)
	members := make(map[int][]int, len(roots))
	for id, root := range roots {
		qs := grouped[root]
		sort.Ints(qs)
		members[id] = qs
	}
	return members
}

// depthGap approximates the gate-depth separation of a link's endpoints by
// their 1q activity imbalance. Links between qubits with comparable activity
// interact within a tight depth window; a large imbalance means the gates on
// the two qubits are spread far apart in the schedule.
func depthGap(f *CircuitFeatures, link Link) int {
	gap := f.PerQubitGateCount[link.A] - f.PerQubitGateCount[link.B]
	if gap < 0 {
		gap = -gap
	}
	return gap
}

// hotspots returns the qubits whose score is at or above
// mean + sigma*stddev, sorted ascending.
func hotspots(perQubit map[int]float64, sigma float64) []int {
	if len(perQubit) == 0 {
		return nil
	}
	scores := make([]float64, 0, len(perQubit))
	for _, s := range perQubit {
		scores = append(scores, s)
	}
	mean := stat.Mean(scores, nil)
	sd := stat.StdDev(scores, nil)
	if math.IsNaN(sd) { // single sample
		sd = 0
	}
	cut := mean + sigma*sd

	var hot []int
	for q, s := range perQubit {
		if s >= cut {
			hot = append(hot, q)
		}
	}
	sort.Ints(hot)
	return hot
}
