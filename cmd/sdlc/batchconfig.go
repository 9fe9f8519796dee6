package main

import (
	"os"

	"gopkg.in/yaml.v2"
)

// BatchJob is one translation unit: an input file, its target
// languages, and its predefined symbols, word size and alignment.
type BatchJob struct {
	Input     string   `yaml:"input"`
	Languages []string `yaml:"languages"`
	Symbols   []string `yaml:"symbols"`
	Align     int64    `yaml:"align"`
	WordSize  int      `yaml:"word_size"`
}

// BatchConfig is the --config YAML document: a list of jobs to run in
// one invocation, the way tools/testing/tap's producer and
// tools/fidl/lib/apidiff's report fixtures in the pack drive
// multi-entry YAML documents through yaml.v2.
type BatchConfig struct {
	Jobs []BatchJob `yaml:"jobs"`
}

// LoadBatchConfig reads and parses a --config YAML file.
func LoadBatchConfig(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg BatchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
