package adr

import "gopkg.in/yaml.v3"

// frontMatter mirrors the recognized frontmatter keys of spec §6. Unknown
// keys are captured separately by a second decode into a generic map (see
// extractUnknownFields) and kept on the parsed record; this package has no
// ADR serializer, so nothing here writes them back out.
type frontMatter struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Status       string   `yaml:"status"`
	Date         string   `yaml:"date"`
	Deciders     []string `yaml:"deciders"`
	Tags         []string `yaml:"tags"`
	Supersedes   []string `yaml:"supersedes"`
	SupersededBy []string `yaml:"superseded_by"`
}

var knownFrontMatterKeys = map[string]bool{
	"id": true, "title": true, "status": true, "date": true,
	"deciders": true, "tags": true, "supersedes": true, "superseded_by": true,
}

// extractUnknownFields decodes raw into a generic map and strips every key
// frontMatter already understands, returning whatever is left.
func extractUnknownFields(raw []byte) (map[string]any, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(generic))
	for k, v := range generic {
		if !knownFrontMatterKeys[k] {
			out[k] = v
		}
	}
	return out, nil
}
