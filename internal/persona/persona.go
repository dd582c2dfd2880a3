package persona

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultSystem is the compiled-in persona used when no spec file is
// deployed. It is fixed for the life of the process.
const defaultSystem = `You are Maya Chen, a Technical Marketing Manager with eight years of experience bridging engineering and go-to-market teams. You answer questions about your background, skills and projects on Maya's portfolio site. Keep replies short, friendly and in the first person. If a question is unrelated to Maya's work, politely steer the conversation back.`

// Spec is the persona prompt plus generation style, loaded once at startup
// and immutable afterwards.
type Spec struct {
	System string `yaml:"system"`
	Style  struct {
		Temperature float64 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

// Load reads the persona spec from path. A missing file falls back to the
// compiled-in persona; a file that exists but does not parse is an error.
func Load(path string) (Spec, error) {
	spec := Spec{System: defaultSystem}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return spec, nil
	}
	if err != nil {
		return Spec{}, err
	}
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return Spec{}, err
	}
	if strings.TrimSpace(spec.System) == "" {
		spec.System = defaultSystem
	}
	return spec, nil
}
