package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Patterns is the content of an allow- or blocklist file. An allowlist file
// uses income_senders, a blocklist file expense_recipients.
type Patterns struct {
	IncomeSenders     []string `yaml:"income_senders,omitempty"`
	ExpenseRecipients []string `yaml:"expense_recipients,omitempty"`
}

// LoadPatterns reads a pattern file.
func LoadPatterns(path string) (Patterns, error) {
	var p Patterns
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading pattern file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing pattern file %s: %w", path, err)
	}
	return p, nil
}

// SavePatterns writes the non-nil lists of p to a pattern file. A non-empty
// comment is written above the first key.
func SavePatterns(path string, p Patterns, comment string) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	lists := []struct {
		key  string
		list []string
	}{
		{"income_senders", p.IncomeSenders},
		{"expense_recipients", p.ExpenseRecipients},
	}
	for _, l := range lists {
		if l.list == nil {
			continue
		}
		var value yaml.Node
		if err := value.Encode(l.list); err != nil {
			return fmt.Errorf("encoding %s: %w", l.key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: l.key}, &value)
	}
	if comment != "" && len(doc.Content) > 0 {
		doc.Content[0].HeadComment = comment
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling patterns: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing pattern file: %w", err)
	}
	return nil
}

func loadPatternsIfExists(path string, log zerolog.Logger) (Patterns, error) {
	if path == "" {
		return Patterns{}, nil
	}
	p, err := LoadPatterns(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", path).Msg("pattern file not found, using no patterns from it")
		return Patterns{}, nil
	}
	return p, err
}
