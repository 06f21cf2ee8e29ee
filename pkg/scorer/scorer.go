package scorer

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/pici/pkg/osmparser"
	"github.com/lintang-b-s/pici/pkg/util"
)

var ErrInvalidRule = errors.New("invalid tag rule")

// DefaultAliases collapses the side specific cycleway keys into cycleway.
var DefaultAliases = map[string]string{
	"cycleway:right": "cycleway",
	"cycleway:left":  "cycleway",
	"cycleway:both":  "cycleway",
}

// NumericRange scores values n with Min < n <= Max.
type NumericRange struct {
	Min   float64
	Max   float64
	Score float64
}

func (r NumericRange) contains(n float64) bool {
	return n > r.Min && n <= r.Max
}

// TagRule is the weight of a tag key and the score of each of its values.
// a rule with ranges scores the leading integer of the value instead of the value itself.
type TagRule struct {
	Weight float64
	Values map[string]float64
	Ranges []NumericRange
}

func (r TagRule) score(value string) float64 {
	if len(r.Ranges) == 0 {
		return r.Values[value]
	}

	n, err := util.LeadingInt(value)
	if err != nil {
		return 0
	}
	for _, rg := range r.Ranges {
		if rg.contains(float64(n)) {
			return rg.Score
		}
	}
	return 0
}

func (r TagRule) validate(key string) error {
	if r.Weight < 0 {
		return fmt.Errorf("%w: %s: negative weight %v", ErrInvalidRule, key, r.Weight)
	}
	for value, s := range r.Values {
		if s < 0 || s > 1 {
			return fmt.Errorf("%w: %s=%s: score %v not in [0,1]", ErrInvalidRule, key, value, s)
		}
	}
	for _, rg := range r.Ranges {
		if rg.Score < 0 || rg.Score > 1 {
			return fmt.Errorf("%w: %s (%v,%v]: score %v not in [0,1]", ErrInvalidRule, key, rg.Min, rg.Max, rg.Score)
		}
		if rg.Min >= rg.Max {
			return fmt.Errorf("%w: %s: empty range (%v,%v]", ErrInvalidRule, key, rg.Min, rg.Max)
		}
	}
	return nil
}

// TagWeights maps a canonical tag key to its rule.
type TagWeights map[string]TagRule

type Scorer struct {
	weights   TagWeights
	aliases   map[string]string
	weightSum float64
	threshold float64
}

// NewScorer validates the rules. nil aliases means DefaultAliases.
func NewScorer(weights TagWeights, aliases map[string]string, threshold float64) (*Scorer, error) {
	if aliases == nil {
		aliases = DefaultAliases
	}
	if weights == nil {
		weights = make(TagWeights)
	}

	weightSum := 0.0
	for _, key := range util.SortedKeys(weights) {
		rule := weights[key]
		if err := rule.validate(key); err != nil {
			return nil, err
		}
		weightSum += rule.Weight
	}

	return &Scorer{
		weights:   weights,
		aliases:   aliases,
		weightSum: weightSum,
		threshold: threshold,
	}, nil
}

func (s *Scorer) canonical(key string) string {
	if c, ok := s.aliases[key]; ok {
		return c
	}
	return key
}

// Rule returns the rule of key after alias resolution. unknown keys get the
// zero rule (weight 0, no values).
func (s *Scorer) Rule(key string) TagRule {
	return s.weights[s.canonical(key)]
}

func (s *Scorer) WeightSum() float64 {
	return s.weightSum
}

func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Score is the normalized cycle friendliness of a way, in [0, 1]. every canonical
// key counts once, with the best score among the tags that resolve to it.
func (s *Scorer) Score(way osmparser.Way) float64 {
	if s.weightSum == 0 {
		return 0
	}

	best := make(map[string]float64, len(way.Tags))
	for key, value := range way.Tags {
		canon := s.canonical(key)
		rule, ok := s.weights[canon]
		if !ok {
			continue
		}
		tagScore := rule.score(value)
		if cur, seen := best[canon]; !seen || tagScore > cur {
			best[canon] = tagScore
		}
	}

	score := 0.0
	for _, key := range util.SortedKeys(best) {
		score += s.weights[key].Weight * best[key]
	}
	return score / s.weightSum
}

// Filter keeps the ways scoring at least threshold, in input order.
func (s *Scorer) Filter(ways []osmparser.Way, threshold float64) []osmparser.Way {
	kept := make([]osmparser.Way, 0, len(ways))
	for _, w := range ways {
		if s.Score(w) >= threshold {
			kept = append(kept, w)
		}
	}
	return kept
}

func (s *Scorer) FilterDefault(ways []osmparser.Way) []osmparser.Way {
	return s.Filter(ways, s.threshold)
}
