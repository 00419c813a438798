package present

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlDoc is the on-disk shape of a presentation fixture: an alphabet
// size and a list of relation pairs, each a pair of letter sequences.
// This is the one serialised artifact the library core touches —
// presentation test fixtures, not enumerator state (spec §6 "no
// persisted state" is about the core, not its test data).
type yamlDoc struct {
	AlphabetSize int        `yaml:"alphabet_size"`
	Rules        []rulePair `yaml:"rules"`
}

type rulePair struct {
	Lhs []int `yaml:"lhs"`
	Rhs []int `yaml:"rhs"`
}

// LoadYAML reads a presentation from a YAML file shaped as:
//
//	alphabet_size: 2
//	rules:
//	  - lhs: [0, 1]
//	    rhs: []
func LoadYAML(path string) (*Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presentation %s: %w", path, err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse presentation %s: %w", path, err)
	}
	p := New(doc.AlphabetSize)
	for _, r := range doc.Rules {
		p.AddRule(Word(r.Lhs), Word(r.Rhs))
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("presentation %s: %w", path, err)
	}
	return p, nil
}
