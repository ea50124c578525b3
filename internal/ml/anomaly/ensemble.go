package anomaly

// Ensemble runs all four base detectors and combines their verdicts by
// averaging anomaly scores weighted by each model's own confidence, so a
// model starved of training data doesn't drag down a verdict the others are
// confident about.
type Ensemble struct {
	models []Model
}

func NewEnsemble() *Ensemble {
	return &Ensemble{
		models: []Model{
			NewIsolationForest(),
			NewOneClassSVM(),
			NewLOF(),
			NewStatistical(),
		},
	}
}

func (e *Ensemble) Name() string { return "Ensemble" }

func (e *Ensemble) Train(samples [][]float64) {
	for _, m := range e.models {
		m.Train(samples)
	}
}

func (e *Ensemble) Predict(vec []float64) Prediction {
	var weightedScore, weightSum float64
	votes := 0
	explanations := make([]string, 0, len(e.models))

	for _, m := range e.models {
		p := m.Predict(vec)
		weightedScore += p.AnomalyScore * p.Confidence
		weightSum += p.Confidence
		if p.IsAnomaly {
			votes++
		}
		explanations = append(explanations, m.Name()+": "+p.Explanation)
	}

	score := 0.0
	if weightSum > 0 {
		score = weightedScore / weightSum
	}

	return Prediction{
		AnomalyScore: clamp01(score),
		IsAnomaly:    votes*2 >= len(e.models), // majority vote
		Confidence:   clamp01(weightSum / float64(len(e.models))),
		Explanation:  joinExplanations(explanations),
	}
}

func joinExplanations(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "; "
		}
		out += p
	}
	return out
}
