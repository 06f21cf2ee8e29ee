package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// tagModel is the part of the config file whose map keys are OSM tag keys and
// values. OSM tags are case sensitive ("GB:nsl_single"), viper lowercases every
// key it reads, so this subtree is decoded from the raw file instead.
type tagModel struct {
	WeightedTags map[string]Tag    `mapstructure:"weightedtags"`
	TagAliases   map[string]string `mapstructure:"tagaliases"`
}

// readTagModel decodes weightedTags and tagAliases of the config file at path
// with their keys untouched. ok is false for a format it does not decode, the
// caller then keeps what viper read.
func readTagModel(path string) (model tagModel, ok bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return model, false, err
	}

	doc := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(content, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &doc)
	case ".toml":
		err = toml.Unmarshal(content, &doc)
	default:
		return model, false, nil
	}
	if err != nil {
		return model, false, err
	}

	// top level keys are matched the way viper matches them.
	subtree := make(map[string]any, 2)
	for key, value := range doc {
		switch {
		case strings.EqualFold(key, "weightedTags"):
			subtree["weightedtags"] = value
		case strings.EqualFold(key, "tagAliases"):
			subtree["tagaliases"] = value
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &model,
	})
	if err != nil {
		return model, false, err
	}
	if err := decoder.Decode(subtree); err != nil {
		return model, false, fmt.Errorf("decoding tag weights: %w", err)
	}
	return model, true, nil
}
