package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/pici/pkg"
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/scorer"
	"github.com/spf13/viper"
)

var ErrConfiguration = errors.New("configuration error")

type BoundingBox struct {
	NodeID int64   `mapstructure:"nodeid"`
	South  float64 `mapstructure:"south" validate:"gte=-90,lte=90"`
	West   float64 `mapstructure:"west" validate:"gte=-180,lte=180"`
	North  float64 `mapstructure:"north" validate:"gte=-90,lte=90,gtefield=South"`
	East   float64 `mapstructure:"east" validate:"gte=-180,lte=180,gtefield=West"`
}

func (b BoundingBox) ToBoundingBox() *datastructure.BoundingBox {
	return datastructure.NewBoundingBox(b.South, b.West, b.North, b.East)
}

type Point struct {
	Lon float64 `mapstructure:"lon" validate:"gte=-180,lte=180"`
	Lat float64 `mapstructure:"lat" validate:"gte=-90,lte=90"`
}

type Range struct {
	Min   float64 `mapstructure:"min"`
	Max   float64 `mapstructure:"max" validate:"gtfield=Min"`
	Score float64 `mapstructure:"score" validate:"gte=0,lte=1"`
}

type Tag struct {
	Weight float64            `mapstructure:"weight" validate:"gte=0"`
	Values map[string]float64 `mapstructure:"values" validate:"dive,gte=0,lte=1"`
	Ranges []Range            `mapstructure:"ranges" validate:"dive"`
}

type fileConfig struct {
	Area          string                 `mapstructure:"area"`
	MapFile       string                 `mapstructure:"mapfile"`
	HighwayOnly   bool                   `mapstructure:"highwayonly"`
	Threshold     float64                `mapstructure:"threshold" validate:"gte=0,lte=1"`
	NeighbourEps  float64                `mapstructure:"neighboureps" validate:"gte=0"`
	Strategies    map[string]bool        `mapstructure:"strategies"`
	BoundingBoxes map[string]BoundingBox `mapstructure:"boundingboxes" validate:"required,dive"`
	TownCentre    *Point                 `mapstructure:"towncentre"`
	WeightedTags  map[string]Tag         `mapstructure:"weightedtags" validate:"dive"`
	TagAliases    map[string]string      `mapstructure:"tagaliases"`
}

// Config is the planner configuration of one area.
type Config struct {
	Area         string
	MapFile      string
	HighwayOnly  bool
	Threshold    float64
	NeighbourEps float64
	Strategies   map[string]bool
	BoundingBox  BoundingBox
	TownCentre   *Point // nil: resolve BoundingBox.NodeID from the map data
	WeightedTags scorer.TagWeights
	TagAliases   map[string]string
}

// Load reads the config file at path (json, yaml or toml). area overrides the
// area key of the file when not empty.
func Load(path string, area string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("threshold", pkg.DEFAULT_THRESHOLD)
	v.SetDefault("neighbourEps", 0.0)
	v.SetDefault("highwayOnly", false)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading config file: %v", ErrConfiguration, err)
	}
	return FromViper(v, area)
}

func FromViper(v *viper.Viper, area string) (*Config, error) {
	var raw fileConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if path := v.ConfigFileUsed(); path != "" {
		model, ok, err := readTagModel(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		if ok {
			raw.WeightedTags = model.WeightedTags
			raw.TagAliases = model.TagAliases
		}
	}

	if err := validateConfig(raw); err != nil {
		return nil, err
	}

	if area == "" {
		area = raw.Area
	}
	if area == "" {
		return nil, fmt.Errorf("%w: area is required", ErrConfiguration)
	}

	// viper lowercases every key, area names included.
	box, ok := raw.BoundingBoxes[strings.ToLower(area)]
	if !ok {
		return nil, fmt.Errorf("%w: %s does not have a corresponding bounding box", ErrConfiguration, area)
	}

	cfg := &Config{
		Area:         area,
		MapFile:      raw.MapFile,
		HighwayOnly:  raw.HighwayOnly,
		Threshold:    raw.Threshold,
		NeighbourEps: raw.NeighbourEps,
		Strategies:   make(map[string]bool, len(raw.Strategies)),
		BoundingBox:  box,
		TownCentre:   raw.TownCentre,
		WeightedTags: make(scorer.TagWeights, len(raw.WeightedTags)),
		TagAliases:   make(map[string]string, len(scorer.DefaultAliases)+len(raw.TagAliases)),
	}

	for alias, key := range scorer.DefaultAliases {
		cfg.TagAliases[alias] = key
	}
	for alias, key := range raw.TagAliases {
		cfg.TagAliases[alias] = key
	}

	for name, enabled := range raw.Strategies {
		cfg.Strategies[strings.ToLower(name)] = enabled
	}

	for key, tag := range raw.WeightedTags {
		rule := scorer.TagRule{
			Weight: tag.Weight,
			Values: tag.Values,
			Ranges: make([]scorer.NumericRange, 0, len(tag.Ranges)),
		}
		for _, r := range tag.Ranges {
			rule.Ranges = append(rule.Ranges, scorer.NumericRange{Min: r.Min, Max: r.Max, Score: r.Score})
		}
		cfg.WeightedTags[key] = rule
	}

	return cfg, nil
}

// StrategyEnabled looks up a strategy toggle. existingPaths is stored under the
// existing key.
func (c *Config) StrategyEnabled(name string) bool {
	key := strings.ToLower(name)
	if key == "existingpaths" {
		key = "existing"
	}
	return c.Strategies[key]
}

// NewScorer builds the way scorer of this configuration.
func (c *Config) NewScorer() (*scorer.Scorer, error) {
	s, err := scorer.NewScorer(c.WeightedTags, c.TagAliases, c.Threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return s, nil
}

func validateConfig(raw fileConfig) error {
	validate := validator.New()
	if err := validate.Struct(raw); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, e.Translate(trans))
		}
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(msgs, "; "))
	}
	return nil
}
