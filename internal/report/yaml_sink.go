package report

import "gopkg.in/yaml.v3"

// YAMLSink renders the report as YAML, reusing the same wire shape as the
// JSON sink so the two formats never drift apart field-for-field.
type YAMLSink struct{}

func (YAMLSink) Name() string { return "yaml" }

func (YAMLSink) Render(r *Report) ([]byte, error) {
	w := toWireReport(r)
	return yaml.Marshal(w)
}
