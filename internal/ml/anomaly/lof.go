package anomaly

import (
	"math"
	"sort"
)

// LOF is a local outlier factor detector: a point is anomalous if its local
// density is substantially lower than that of its k nearest neighbors.
type LOF struct {
	samples [][]float64
	k       int
	fitted  bool
}

// NewLOF returns a detector using the conventional k=20 neighborhood,
// shrinking automatically for small training sets in Train.
func NewLOF() *LOF { return &LOF{k: 20} }

func (l *LOF) Name() string { return "LocalOutlierFactor" }

func (l *LOF) Train(samples [][]float64) {
	if len(samples) < 3 {
		l.fitted = false
		return
	}
	l.samples = samples
	if l.k > len(samples)-1 {
		l.k = len(samples) - 1
	}
	l.fitted = true
}

func (l *LOF) Predict(vec []float64) Prediction {
	if !l.fitted || l.k < 1 {
		return Prediction{AnomalyScore: 0, IsAnomaly: false, Confidence: 0.1, Explanation: "LOF has no training data"}
	}

	neighbors := l.kNearest(vec, l.k)
	lrdP := l.localReachabilityDensity(vec, neighbors)

	var sumRatio float64
	for _, n := range neighbors {
		nNeighbors := l.kNearest(n, l.k)
		lrdN := l.localReachabilityDensity(n, nNeighbors)
		if lrdP == 0 {
			continue
		}
		sumRatio += lrdN / lrdP
	}
	lof := 1.0
	if len(neighbors) > 0 {
		lof = sumRatio / float64(len(neighbors))
	}

	// LOF is typically centered at 1.0 for inliers and grows unbounded for
	// outliers; squash via x-1 so 1.0 -> 0 and large LOF approaches 1.
	score := clamp01((lof - 1) / (lof - 1 + 1))
	if lof <= 1 {
		score = 0
	}

	return Prediction{
		AnomalyScore: score,
		IsAnomaly:    score >= Threshold,
		Confidence:   clamp01(float64(len(l.samples)) / 50),
		Explanation:  "local density ratio against nearest neighbors",
	}
}

func (l *LOF) kNearest(vec []float64, k int) [][]float64 {
	type distPoint struct {
		dist float64
		pt   []float64
	}
	dp := make([]distPoint, 0, len(l.samples))
	for _, s := range l.samples {
		dp = append(dp, distPoint{dist: euclidean(vec, s), pt: s})
	}
	sort.Slice(dp, func(i, j int) bool { return dp[i].dist < dp[j].dist })
	if k > len(dp) {
		k = len(dp)
	}
	out := make([][]float64, k)
	for i := 0; i < k; i++ {
		out[i] = dp[i].pt
	}
	return out
}

func (l *LOF) localReachabilityDensity(vec []float64, neighbors [][]float64) float64 {
	if len(neighbors) == 0 {
		return 0
	}
	var sumDist float64
	for _, n := range neighbors {
		sumDist += euclidean(vec, n)
	}
	avg := sumDist / float64(len(neighbors))
	if avg == 0 {
		return math.Inf(1)
	}
	return 1 / avg
}

func euclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
