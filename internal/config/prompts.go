package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// defaultPrompt is used when no prompts file is present. It instructs the
// model to emit the flat JSON shape the normalizer expects.
const defaultPrompt = `You are an insurance claims assistant. Given the extracted text of a claim
document, return a single JSON object with these keys: claim_id,
incident_date (YYYY-MM-DD), claim_amount (number), damage_description,
summary, confidence (0 to 1). Omit keys you cannot determine. Return only
the JSON object.`

// LoadPrompts reads the enrichment prompt template from a YAML file. The
// file may be a mapping with a "default" key or plain text; a missing or
// unreadable file falls back to the built-in prompt rather than failing,
// so a bare checkout still runs.
func LoadPrompts(path string) string {
	if path == "" {
		return defaultPrompt
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return defaultPrompt
	}

	var mapping map[string]string
	if err := yaml.Unmarshal(raw, &mapping); err == nil {
		if p, ok := mapping["default"]; ok && p != "" {
			return p
		}
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return defaultPrompt
}
