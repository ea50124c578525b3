package anomaly

import "strings"

// New constructs the named model variant (config ml.model_type), defaulting
// to Ensemble for an unrecognized or empty name rather than failing the run —
// this stage degrades, it never blocks a scan.
func New(modelType string) Model {
	switch strings.ToLower(modelType) {
	case "isolationforest":
		return NewIsolationForest()
	case "oneclasssvm":
		return NewOneClassSVM()
	case "localoutlierfactor", "lof":
		return NewLOF()
	case "statistical":
		return NewStatistical()
	default:
		return NewEnsemble()
	}
}
