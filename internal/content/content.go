// Package content ships the built-in topic banks used when no database is configured.
package content

import (
	_ "embed"
	"fmt"

	"edu-games/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var topicsYAML []byte

// Animals are the memory-board symbols.
var Animals = []string{
	"🐱", "🐶", "🐰", "🐸", "🐧", "🦁", "🐯", "🐨",
	"🐼", "🦊", "🐺", "🐮", "🐷", "🐹", "🐭", "🐻",
}

// Topics parses the embedded banks keyed by topic id.
func Topics() (map[string]domain.Topic, error) {
	return ParseTopics(topicsYAML)
}

// ParseTopics decodes a YAML list of topics. Ids must be unique and non-empty.
func ParseTopics(raw []byte) (map[string]domain.Topic, error) {
	var list []domain.Topic
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}
	out := make(map[string]domain.Topic, len(list))
	for _, topic := range list {
		if topic.ID == "" {
			return nil, fmt.Errorf("parse topics: topic %q has no id", topic.Title)
		}
		if _, dup := out[topic.ID]; dup {
			return nil, fmt.Errorf("parse topics: duplicate id %q", topic.ID)
		}
		out[topic.ID] = topic
	}
	return out, nil
}
