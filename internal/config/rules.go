package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/playmatatu/tablescore/internal/billiards"
	"gopkg.in/yaml.v3"
)

// Rules are the house rules a table is created with.
type Rules struct {
	ParBalls      []int `yaml:"par_balls" json:"par_balls"`
	ImparBalls    []int `yaml:"impar_balls" json:"impar_balls"`
	AutoContinue  bool  `yaml:"auto_continue" json:"auto_continue"`
	TeamsPerSide  int   `yaml:"teams_per_side" json:"teams_per_side"`
	MinNameLength int   `yaml:"min_name_length" json:"min_name_length"`
}

// rawRules mirrors Rules with pointers so a file can override single fields.
type rawRules struct {
	ParBalls      []int `yaml:"par_balls"`
	ImparBalls    []int `yaml:"impar_balls"`
	AutoContinue  *bool `yaml:"auto_continue"`
	TeamsPerSide  *int  `yaml:"teams_per_side"`
	MinNameLength *int  `yaml:"min_name_length"`
}

// DefaultRules returns the stock PAR/IMPAR rules.
func DefaultRules() Rules {
	return Rules{
		ParBalls:      append([]int(nil), billiards.DefaultParBalls...),
		ImparBalls:    append([]int(nil), billiards.DefaultImparBalls...),
		AutoContinue:  false,
		TeamsPerSide:  1,
		MinNameLength: 2,
	}
}

// LoadRules reads a YAML rules file and merges it over DefaultRules.
// An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(b)
}

// ParseRules decodes YAML rules and merges them over DefaultRules.
func ParseRules(b []byte) (Rules, error) {
	rules := DefaultRules()
	var raw rawRules
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return rules, fmt.Errorf("parse rules: %w", err)
	}
	if len(raw.ParBalls) > 0 {
		rules.ParBalls = raw.ParBalls
	}
	if len(raw.ImparBalls) > 0 {
		rules.ImparBalls = raw.ImparBalls
	}
	if raw.AutoContinue != nil {
		rules.AutoContinue = *raw.AutoContinue
	}
	if raw.TeamsPerSide != nil {
		rules.TeamsPerSide = *raw.TeamsPerSide
	}
	if raw.MinNameLength != nil {
		rules.MinNameLength = *raw.MinNameLength
	}
	return rules, rules.Validate()
}

// Validate checks the ball sets and numeric limits.
func (r Rules) Validate() error {
	if r.TeamsPerSide < 1 {
		return errors.New("teams_per_side must be at least 1")
	}
	if r.MinNameLength < 1 {
		return errors.New("min_name_length must be at least 1")
	}
	seen := make(map[int]bool)
	for _, set := range [][]int{r.ParBalls, r.ImparBalls} {
		if len(set) == 0 {
			return fmt.Errorf("%w: empty side", billiards.ErrInvalidBallSet)
		}
		for _, n := range set {
			if n < 1 || n > 15 || n == billiards.BlackBall || seen[n] {
				return fmt.Errorf("%w: ball %d", billiards.ErrInvalidBallSet, n)
			}
			seen[n] = true
		}
	}
	return nil
}
