// Package config loads the YAML description of a training run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/fdnet/internal/nn"
	"github.com/born-ml/fdnet/internal/parallel"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Layers           []int         `yaml:"layers"`
	HiddenActivation string        `yaml:"hidden_activation"`
	OutputActivation string        `yaml:"output_activation"`
	LearnRate        float64       `yaml:"learn_rate"`
	Iterations       int           `yaml:"iterations"`
	Seed             int64         `yaml:"seed"`
	Workers          int           `yaml:"workers"`
	LogEvery         int           `yaml:"log_every"`
	Examples         []ExampleSpec `yaml:"examples"`
}

// ExampleSpec is one labeled example as written in the config file.
type ExampleSpec struct {
	Inputs   []float64 `yaml:"inputs"`
	Expected []float64 `yaml:"expected"`
}

// Overrides captures CLI supplied values. Zero numeric fields and a nil
// Seed leave the config untouched.
type Overrides struct {
	Iterations int
	LearnRate  float64
	Seed       *int64
	Workers    int
}

// Default returns the values used for keys missing from the file.
func Default() *Config {
	return &Config{
		HiddenActivation: nn.Sigmoid.String(),
		OutputActivation: nn.Sigmoid.String(),
		LearnRate:        0.1,
		Iterations:       1000,
		Seed:             -1,
		LogEvery:         100,
	}
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes YAML from r on top of Default(). Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config is empty")
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any override that was set.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Iterations > 0 {
		c.Iterations = o.Iterations
	}
	if o.LearnRate > 0 {
		c.LearnRate = o.LearnRate
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Layers) == 0 {
		return errors.New("layers must list at least one size")
	}
	for i, size := range c.Layers {
		if size <= 0 {
			return fmt.Errorf("layers[%d] must be > 0 (got %d)", i, size)
		}
	}
	if _, err := nn.ParseActivation(c.HiddenActivation); err != nil {
		return fmt.Errorf("hidden_activation: %w", err)
	}
	if _, err := nn.ParseActivation(c.OutputActivation); err != nil {
		return fmt.Errorf("output_activation: %w", err)
	}
	if c.LearnRate <= 0 {
		return fmt.Errorf("learn_rate must be > 0 (got %g)", c.LearnRate)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0 (got %d)", c.Iterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 100
	}
	if len(c.Examples) == 0 {
		return errors.New("at least one example is required")
	}

	inputs, outputs := c.Layers[0], c.Layers[len(c.Layers)-1]
	for i, ex := range c.Examples {
		if len(ex.Inputs) != inputs {
			return fmt.Errorf("examples[%d].inputs: want %d values, got %d", i, inputs, len(ex.Inputs))
		}
		if len(ex.Expected) != outputs {
			return fmt.Errorf("examples[%d].expected: want %d values, got %d", i, outputs, len(ex.Expected))
		}
	}
	return nil
}

// NetworkConfig converts the topology section into an nn.NetworkConfig.
//
// Workers: 0 sizes the pool to the CPU, 1 runs sequentially, n > 1 uses n.
func (c *Config) NetworkConfig() (nn.NetworkConfig, error) {
	hidden, err := nn.ParseActivation(c.HiddenActivation)
	if err != nil {
		return nn.NetworkConfig{}, fmt.Errorf("hidden_activation: %w", err)
	}
	output, err := nn.ParseActivation(c.OutputActivation)
	if err != nil {
		return nn.NetworkConfig{}, fmt.Errorf("output_activation: %w", err)
	}

	par := parallel.DefaultConfig()
	switch {
	case c.Workers == 1:
		par = parallel.Sequential()
	case c.Workers > 1:
		par.Enabled = true
		par.NumWorkers = c.Workers
	}

	return nn.NetworkConfig{
		Sizes:    c.Layers,
		Hidden:   hidden,
		Output:   output,
		Seed:     c.Seed,
		Parallel: par,
	}, nil
}

// BuildExamples converts the examples section into nn examples.
func (c *Config) BuildExamples() []*nn.Example {
	examples := make([]*nn.Example, len(c.Examples))
	for i, ex := range c.Examples {
		examples[i] = nn.NewExample(ex.Inputs, ex.Expected)
	}
	return examples
}
