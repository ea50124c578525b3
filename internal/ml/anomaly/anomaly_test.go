package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clusterSamples() [][]float64 {
	samples := make([][]float64, 0, 40)
	for i := 0; i < 40; i++ {
		samples = append(samples, []float64{0.1 + float64(i%5)*0.01, 0.2, 0.3, 1, 2})
	}
	return samples
}

func TestModels_ScoreBoundedZeroOne(t *testing.T) {
	samples := clusterSamples()
	outlier := []float64{50, 50, 50, 50, 50}

	for _, m := range []Model{NewIsolationForest(), NewOneClassSVM(), NewLOF(), NewStatistical(), NewEnsemble()} {
		m.Train(samples)
		p := m.Predict(outlier)
		assert.GreaterOrEqual(t, p.AnomalyScore, 0.0, m.Name())
		assert.LessOrEqual(t, p.AnomalyScore, 1.0, m.Name())
		assert.GreaterOrEqual(t, p.Confidence, 0.0, m.Name())
		assert.LessOrEqual(t, p.Confidence, 1.0, m.Name())
	}
}

func TestModels_OutlierScoresHigherThanInlier(t *testing.T) {
	samples := clusterSamples()
	inlier := []float64{0.11, 0.2, 0.3, 1, 2}
	outlier := []float64{90, 90, 90, 90, 90}

	for _, m := range []Model{NewIsolationForest(), NewOneClassSVM(), NewLOF(), NewStatistical()} {
		m.Train(samples)
		pi := m.Predict(inlier)
		po := m.Predict(outlier)
		assert.Greater(t, po.AnomalyScore, pi.AnomalyScore, m.Name())
	}
}

func TestModels_UntrainedDegradesGracefully(t *testing.T) {
	for _, m := range []Model{NewIsolationForest(), NewOneClassSVM(), NewLOF(), NewStatistical(), NewEnsemble()} {
		p := m.Predict([]float64{1, 2, 3, 4, 5})
		assert.False(t, p.IsAnomaly, m.Name())
		assert.NotEmpty(t, p.Explanation, m.Name())
	}
}

func TestFactory_DefaultsToEnsemble(t *testing.T) {
	m := New("unknown-variant")
	assert.Equal(t, "Ensemble", m.Name())
}

func TestFactory_SelectsNamedVariant(t *testing.T) {
	assert.Equal(t, "IsolationForest", New("IsolationForest").Name())
	assert.Equal(t, "OneClassSVM", New("OneClassSVM").Name())
	assert.Equal(t, "LocalOutlierFactor", New("LOF").Name())
	assert.Equal(t, "Statistical", New("Statistical").Name())
}
