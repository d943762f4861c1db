// Package mapping translates human-authored file column headers into the
// canonical contact fields using configured regular expression rules.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rpattn/contactsvc/internal/extract"
)

// Rule binds one canonical field to the header pattern that selects it.
type Rule struct {
	Field   string
	Pattern *regexp.Regexp
}

// RuleSet is an ordered list of rules. Order matters: for each header the
// first matching rule wins, so the set is kept as a slice, never a map.
// A RuleSet is built once at startup and treated as immutable afterwards.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet compiles ordered (field, pattern) pairs. Patterns are matched
// case-insensitively against trimmed headers.
func NewRuleSet(pairs [][2]string) (RuleSet, error) {
	rules := make([]Rule, 0, len(pairs))
	for _, pair := range pairs {
		field, pattern := pair[0], pair[1]
		if strings.TrimSpace(field) == "" {
			return RuleSet{}, fmt.Errorf("mapping rule with empty field name")
		}
		compiled, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return RuleSet{}, fmt.Errorf("invalid pattern for field %s: %w", field, err)
		}
		rules = append(rules, Rule{Field: field, Pattern: compiled})
	}
	return RuleSet{rules: rules}, nil
}

// LoadRules reads a JSON object file of {"field": "pattern"} entries,
// preserving declaration order. Any read, parse or compile failure is
// returned so the caller can refuse to start.
func LoadRules(path string) (RuleSet, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("failed to read mapping config: %w", err)
	}

	pairs, err := decodeOrderedObject(payload)
	if err != nil {
		return RuleSet{}, fmt.Errorf("failed to parse mapping config %s: %w", path, err)
	}

	set, err := NewRuleSet(pairs)
	if err != nil {
		return RuleSet{}, fmt.Errorf("failed to compile mapping config %s: %w", path, err)
	}
	return set, nil
}

// decodeOrderedObject walks the JSON token stream instead of unmarshalling
// into a map, which would lose the declaration order the first-match-wins
// contract depends on.
func decodeOrderedObject(payload []byte) ([][2]string, error) {
	dec := json.NewDecoder(strings.NewReader(string(payload)))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	var pairs [][2]string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		valueTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		value, ok := valueTok.(string)
		if !ok {
			return nil, fmt.Errorf("pattern for %s must be a string, got %v", key, valueTok)
		}

		pairs = append(pairs, [2]string{key, value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// Len returns the number of configured rules.
func (s RuleSet) Len() int {
	return len(s.rules)
}

// Map assigns raw row values to canonical fields. Each header is tested
// against the rules in declaration order and stops at the first match;
// headers matching no rule are dropped silently. An empty result means the
// row carried nothing recognizable and should be skipped, not failed.
func (s RuleSet) Map(row extract.RawRow) map[string]string {
	mapped := make(map[string]string)
	for _, cell := range row {
		header := strings.TrimSpace(cell.Header)
		for _, rule := range s.rules {
			if rule.Pattern.MatchString(header) {
				mapped[rule.Field] = strings.TrimSpace(cell.Value)
				break
			}
		}
	}
	return mapped
}
