package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Configuration is the launcher configuration. It is read from the file
// given with --config and completed with flag values and built-in defaults.
type Configuration struct {
	Command               string   `yaml:"command"`
	Args                  []string `yaml:"args"`
	Forks                 *int     `yaml:"forks,omitempty"`
	WarmupIterations      *int     `yaml:"warmupIterations,omitempty"`
	MeasurementIterations *int     `yaml:"measurementIterations,omitempty"`
	APIs                  string   `yaml:"apis"`
	Libraries             string   `yaml:"libraries"`
	JavaVersion           string   `yaml:"javaVersion"`
}

func intPtr(i int) *int {
	return &i
}

func defaultConfiguration() *Configuration {
	return &Configuration{
		Command:               "java",
		Args:                  []string{"-jar", "target/benchmarks.jar"},
		Forks:                 intPtr(1),
		WarmupIterations:      intPtr(5),
		MeasurementIterations: intPtr(5),
	}
}

func loadConfiguration(path string) (*Configuration, error) {
	c := &Configuration{}
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("unable to parse configuration file '%s': %w", path, err)
	}
	return c, nil
}

func (c *Configuration) applyDefaults(d *Configuration) *Configuration {
	// a command set without args runs without them
	if c.Command == "" {
		c.Command = d.Command
		if c.Args == nil {
			c.Args = d.Args
		}
	}
	if c.Forks == nil {
		c.Forks = d.Forks
	}
	if c.WarmupIterations == nil {
		c.WarmupIterations = d.WarmupIterations
	}
	if c.MeasurementIterations == nil {
		c.MeasurementIterations = d.MeasurementIterations
	}
	if c.APIs == "" {
		c.APIs = d.APIs
	}
	if c.Libraries == "" {
		c.Libraries = d.Libraries
	}
	if c.JavaVersion == "" {
		c.JavaVersion = d.JavaVersion
	}
	return c
}
