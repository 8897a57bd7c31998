package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config/schema.json", schemaJSON)

// Validate checks the configuration against the embedded JSON schema and the
// cross-field rules the schema cannot express. A nil error means every
// downstream computation is safe from NaN-producing inputs.
func (c *Config) Validate() error {
	if err := c.validateSchema(); err != nil {
		return err
	}

	if c.Fish.SizeMin > c.Fish.SizeMax {
		return fmt.Errorf("fish.size_min (%v) exceeds fish.size_max (%v)", c.Fish.SizeMin, c.Fish.SizeMax)
	}
	if c.Fish.BaseSpeedMin > c.Fish.BaseSpeedMax {
		return fmt.Errorf("fish.base_speed_min (%v) exceeds fish.base_speed_max (%v)", c.Fish.BaseSpeedMin, c.Fish.BaseSpeedMax)
	}
	if c.Ripple.MaxRadiusMin > c.Ripple.MaxRadiusMax {
		return fmt.Errorf("ripple.max_radius_min (%v) exceeds ripple.max_radius_max (%v)", c.Ripple.MaxRadiusMin, c.Ripple.MaxRadiusMax)
	}
	if c.Population.Initial > c.Population.Max {
		return fmt.Errorf("population.initial (%d) exceeds population.max (%d)", c.Population.Initial, c.Population.Max)
	}
	if c.Ripple.WaveWidth >= c.Ripple.MaxRadiusMin {
		return fmt.Errorf("ripple.wave_width (%v) must be smaller than ripple.max_radius_min (%v)", c.Ripple.WaveWidth, c.Ripple.MaxRadiusMin)
	}
	return nil
}

// validateSchema runs the merged config through the JSON schema.
// yaml.v3 decodes mappings into map[string]interface{}, so a round-trip
// through encoding/json yields the instance types the validator expects.
func (c *Config) validateSchema() error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config for validation: %w", err)
	}
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("remarshaling config for validation: %w", err)
	}
	jsonRaw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting config to json: %w", err)
	}
	var instance interface{}
	if err := json.Unmarshal(jsonRaw, &instance); err != nil {
		return fmt.Errorf("decoding config json: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	return nil
}
