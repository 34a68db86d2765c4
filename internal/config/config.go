// Package config loads training run configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quill-ml/quill/internal/train"
)

// Preview controls the generation preview printed after each epoch.
type Preview struct {
	Chars       int     `yaml:"chars"`
	Temperature float64 `yaml:"temperature"`
}

// Config is the YAML file schema for a training run. Zero values fall
// back to the standard defaults.
type Config struct {
	Corpus          string  `yaml:"corpus"`
	WindowLen       int     `yaml:"window_len"`
	HiddenUnits     int     `yaml:"hidden_units"`
	Dropout         float64 `yaml:"dropout"`
	BatchSize       int     `yaml:"batch_size"`
	Epochs          int     `yaml:"epochs"`
	ValidationSplit float64 `yaml:"validation_split"`
	LearningRate    float64 `yaml:"learning_rate"`
	Seed            int64   `yaml:"seed"`
	Checkpoint      string  `yaml:"checkpoint"`
	Artifacts       string  `yaml:"artifacts"`
	Preview         Preview `yaml:"preview"`
}

// Default returns the configuration used when no file is given:
// the train package defaults plus a 200-character preview at
// temperature 1.
func Default() Config {
	t := train.DefaultConfig()
	return Config{
		WindowLen:       t.WindowLen,
		HiddenUnits:     t.HiddenUnits,
		Dropout:         t.Dropout,
		BatchSize:       t.BatchSize,
		Epochs:          t.Epochs,
		ValidationSplit: t.ValidationSplit,
		LearningRate:    t.LearningRate,
		Seed:            -1,
		Checkpoint:      "quill-best.qlm",
		Preview:         Preview{Chars: 200, Temperature: 1.0},
	}
}

// Load parses a YAML config file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges the training loop depends on.
func (c Config) Validate() error {
	switch {
	case c.WindowLen <= 0:
		return fmt.Errorf("window_len must be positive, got %d", c.WindowLen)
	case c.HiddenUnits <= 0:
		return fmt.Errorf("hidden_units must be positive, got %d", c.HiddenUnits)
	case c.Dropout < 0 || c.Dropout >= 1:
		return fmt.Errorf("dropout must be in [0, 1), got %v", c.Dropout)
	case c.BatchSize <= 0:
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	case c.Epochs <= 0:
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	case c.ValidationSplit < 0 || c.ValidationSplit >= 1:
		return fmt.Errorf("validation_split must be in [0, 1), got %v", c.ValidationSplit)
	case c.LearningRate <= 0:
		return fmt.Errorf("learning_rate must be positive, got %v", c.LearningRate)
	case c.Preview.Chars < 0:
		return fmt.Errorf("preview.chars must be >= 0, got %d", c.Preview.Chars)
	case c.Preview.Chars > 0 && c.Preview.Temperature <= 0:
		return fmt.Errorf("preview.temperature must be positive, got %v", c.Preview.Temperature)
	}
	return nil
}

// TrainConfig converts to the training loop's configuration.
func (c Config) TrainConfig() train.Config {
	return train.Config{
		WindowLen:       c.WindowLen,
		HiddenUnits:     c.HiddenUnits,
		Dropout:         c.Dropout,
		BatchSize:       c.BatchSize,
		Epochs:          c.Epochs,
		ValidationSplit: c.ValidationSplit,
		LearningRate:    c.LearningRate,
		Seed:            c.Seed,
		CheckpointPath:  c.Checkpoint,
	}
}
