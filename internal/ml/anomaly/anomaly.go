// Package anomaly implements C8: five interchangeable anomaly detectors over
// DriftFeatures vectors, each an {train(samples), predict(features)} model.
//
// hargabyte-cortex is the only pack repo with genuine ML dependencies (gomlx,
// onnx-gomlx, hugot), but those are transformer/tensor-runtime libraries for
// embeddings and inference — not a fit for five classical from-scratch anomaly
// detectors operating on an 11-wide feature vector. Pulling in a tensor
// runtime for that would be a dependency sledgehammer this spec's own design
// (cold-start bootstrap, TTL eviction, in-memory training samples — all
// small-data problems) doesn't call for. Built on the standard library
// (math, sort) — the one core component with no suitable pack/ecosystem
// library to wire; see DESIGN.md.
package anomaly

import (
	"github.com/photondrift/adrscan/internal/driftmodel"
)

// Prediction is one model's verdict on a feature vector.
type Prediction struct {
	AnomalyScore float64 // bounded [0,1], higher is more anomalous
	IsAnomaly    bool
	Confidence   float64 // bounded [0,1]
	Explanation  string
}

// Model is the common contract every detector variant satisfies.
type Model interface {
	// Train fits the model on a set of historical feature samples. Safe to
	// call with zero samples; predictions before any training data degrade to
	// a neutral, low-confidence verdict rather than erroring.
	Train(samples [][]float64)
	// Predict scores one feature vector against the fitted model.
	Predict(vec []float64) Prediction
	// Name identifies the model, used in Prediction.Explanation and reports.
	Name() string
}

// Threshold is the anomaly_score cutoff above which IsAnomaly is set, shared
// by every variant so they remain comparable under the same config. Callers
// wire this from ml.confidence_threshold (spec default 0.7); it is a package
// variable rather than a per-model field since every variant in one run must
// agree on what counts as anomalous.
var Threshold = 0.7

// SetThreshold updates the shared anomaly threshold, called once at startup
// from the resolved configuration.
func SetThreshold(t float64) {
	if t > 0 && t <= 1 {
		Threshold = t
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// featureNames is cached once; anomaly.go doesn't recompute driftmodel's slice
// per prediction.
var featureNames = driftmodel.FeatureNames()
