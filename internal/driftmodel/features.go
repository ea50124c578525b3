package driftmodel

// DriftFeatures is the fixed-width numeric vector the feature extractor (C7)
// derives from a Finding, feeding the anomaly models (C8). Field definitions
// are exactly those of spec §4.7.
type DriftFeatures struct {
	FileCount                float64
	LinesChanged             float64
	ComplexityScore          float64
	TechDiversity            float64
	PatternFrequency         float64
	TemporalRecency          float64
	TextSentiment            float64
	TechnicalTermCount       float64
	StructuralDirectoryDepth float64
	StructuralCoupling       float64
	StructuralCohesion       float64
}

// Vector returns the fixed-order numeric slice the anomaly models consume.
func (f DriftFeatures) Vector() []float64 {
	return []float64{
		f.FileCount,
		f.LinesChanged,
		f.ComplexityScore,
		f.TechDiversity,
		f.PatternFrequency,
		f.TemporalRecency,
		f.TextSentiment,
		f.TechnicalTermCount,
		f.StructuralDirectoryDepth,
		f.StructuralCoupling,
		f.StructuralCohesion,
	}
}

// FeatureNames returns the names of Vector()'s elements, in order, used by
// anomaly models to build human-readable explanations.
func FeatureNames() []string {
	return []string{
		"file_count",
		"lines_changed",
		"complexity_score",
		"tech_diversity",
		"pattern_frequency",
		"temporal_recency",
		"text_sentiment",
		"technical_term_count",
		"structural.directory_depth",
		"structural.coupling_score",
		"structural.cohesion_score",
	}
}
