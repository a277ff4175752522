package rule

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// UnmarshalJSON accepts the enum's snake_case name in any case.
func (o *Operator) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "equals":
		*o = Equals
	case "contains":
		*o = Contains
	case "starts_with":
		*o = StartsWith
	case "ends_with":
		*o = EndsWith
	default:
		return fmt.Errorf("unknown operator %q", s)
	}
	return nil
}

// UnmarshalJSON accepts the enum's snake_case name in any case.
func (p *UrlPart) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "host":
		*p = Host
	case "path":
		*p = Path
	case "file":
		*p = File
	case "query":
		*p = Query
	default:
		return fmt.Errorf("unknown url part %q", s)
	}
	return nil
}

// jsonCondition and jsonRule mirror the wire format; negated defaults to
// false when absent, matching the Rust loader's #[serde(default)].
type jsonCondition struct {
	Part     UrlPart  `json:"part"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
	Negated  bool     `json:"negated"`
}

type jsonRule struct {
	Name       string          `json:"name"`
	Priority   int32           `json:"priority"`
	Conditions []jsonCondition `json:"conditions"`
	Result     string          `json:"result"`
}

// LoadFromFile reads and parses a rules file. Returns a *ConfigError on any
// I/O or parse failure.
func LoadFromFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	rules, err := LoadFromReader(f)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return rules, nil
}

// LoadFromReader parses rules from any io.Reader supplying JSON content.
func LoadFromReader(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses rules from a raw JSON byte slice.
func LoadFromBytes(data []byte) ([]Rule, error) {
	var jsonRules []jsonRule
	if err := json.Unmarshal(data, &jsonRules); err != nil {
		return nil, &ConfigError{Err: err}
	}

	rules := make([]Rule, len(jsonRules))
	for i, jr := range jsonRules {
		conditions := make([]Condition, len(jr.Conditions))
		for j, jc := range jr.Conditions {
			conditions[j] = Condition{
				Part:     jc.Part,
				Operator: jc.Operator,
				Value:    jc.Value,
				Negated:  jc.Negated,
			}
		}
		rules[i] = Rule{
			Name:       jr.Name,
			Priority:   jr.Priority,
			Conditions: conditions,
			Result:     jr.Result,
		}
	}
	return rules, nil
}
