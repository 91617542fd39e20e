/*
 * config.go, part of gomlp.
 *
 * Copyright 2024 The gomlp Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config holds the settings of gomlp: the paths to templates and
// tables, the structure catalogs, and the defaults for the different
// analyses. Settings are read with viper from an optional file (YAML, TOML
// or JSON, by extension) and GOMLP_* environment variables, on top of the
// defaults in SetDefaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables that override settings.
// GOMLP_SPUTTER_WINDOW overrides sputter.window, for instance.
const EnvPrefix = "GOMLP"

// Config contains the settings of gomlp. It can be obtained with Load or
// Default, or filled by hand, in which case Check should be called before use.
type Config struct {
	Paths    PathsConfig       `mapstructure:"paths" yaml:"paths"`
	Catalog  map[string]string `mapstructure:"catalog" yaml:"catalog"`
	Espresso EspressoConfig    `mapstructure:"espresso" yaml:"espresso"`
	Sputter  SputterConfig     `mapstructure:"sputter" yaml:"sputter"`
	RDF      RDFConfig         `mapstructure:"rdf" yaml:"rdf"`
	Log      LogConfig         `mapstructure:"log" yaml:"log"`
}

// PathsConfig points to the files gomlp needs but doesn't produce.
type PathsConfig struct {
	// YamamuraTable is a CSV file with Z2,Us,Q,W,s columns. If empty, the
	// built-in table is used.
	YamamuraTable string `mapstructure:"yamamura_table" yaml:"yamamura_table"`

	// ElasticTemplate is the LAMMPS directory copied for each epoch.
	ElasticTemplate string `mapstructure:"elastic_template" yaml:"elastic_template"`

	// CohesiveTemplate holds single/in.single and minimize/in.minimize.
	CohesiveTemplate string `mapstructure:"cohesive_template" yaml:"cohesive_template"`

	// Potential is the n2p2 potential directory used by the LAMMPS templates.
	Potential string `mapstructure:"potential" yaml:"potential"`
}

// EspressoConfig has the names used to read pw.x directories.
type EspressoConfig struct {
	Input    string `mapstructure:"input" yaml:"input"`
	Output   string `mapstructure:"output" yaml:"output"`
	IDMarker string `mapstructure:"id_marker" yaml:"id_marker"`

	// Species is used for structures without chemical symbols.
	Species string `mapstructure:"species" yaml:"species"`
}

// SputterConfig has the parameters of the sputtering yield analysis.
type SputterConfig struct {
	Dump string `mapstructure:"dump" yaml:"dump"`

	// Interval is the number of timesteps between two injected ions.
	Interval int `mapstructure:"interval" yaml:"interval"`

	// Window is the number of points of the sliding average.
	Window int `mapstructure:"window" yaml:"window"`

	// Type is the LAMMPS atom type counted as sputtered.
	Type int `mapstructure:"type" yaml:"type"`

	// Area of the irradiated surface, in A^2. 0 means the dose is
	// reported as the number of injected ions.
	Area float64 `mapstructure:"area" yaml:"area"`
}

// RDFConfig has the binning of radial distribution functions.
type RDFConfig struct {
	Cutoff float64 `mapstructure:"cutoff" yaml:"cutoff"`
	Bins   int     `mapstructure:"bins" yaml:"bins"`
}

// LogConfig sets up the logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("espresso.input", "scf.in")
	v.SetDefault("espresso.output", "scf.out")
	v.SetDefault("espresso.id_marker", "mp-")
	v.SetDefault("espresso.species", "Si")

	v.SetDefault("sputter.dump", "etch.dat")
	v.SetDefault("sputter.interval", 1000)
	v.SetDefault("sputter.window", 50)
	v.SetDefault("sputter.type", 2)
	v.SetDefault("sputter.area", 0.0)

	v.SetDefault("rdf.cutoff", 6.0)
	v.SetDefault("rdf.bins", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Default returns the default configuration, with environment overrides applied.
func Default() *Config {
	C, err := unmarshal(newViper())
	if err != nil {
		//the defaults always decode
		panic(err)
	}
	return C
}

// Load reads the configuration file at path on top of the defaults, and checks
// the result. An empty path gives the default configuration.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	C, err := unmarshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", path)
	}
	if err := C.Check(); err != nil {
		return nil, errors.Wrap(err, "Check")
	}
	return C, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var C Config
	if err := v.Unmarshal(&C); err != nil {
		return nil, err
	}
	if C.Catalog == nil {
		C.Catalog = make(map[string]string)
	}
	return &C, nil
}

// Check checks that the Config is usable. It returns an error if a field doesn't
// meet the requirements.
func (C *Config) Check() error {
	if C.Espresso.Input == "" || C.Espresso.Output == "" {
		return errors.New("espresso input and output names cannot be empty")
	}
	if C.Sputter.Interval <= 0 {
		return errors.Newf("sputter interval must be positive, got %d", C.Sputter.Interval)
	}
	if C.Sputter.Window <= 0 {
		return errors.Newf("sputter window must be positive, got %d", C.Sputter.Window)
	}
	if C.Sputter.Area < 0 {
		return errors.Newf("sputter area cannot be negative, got %g", C.Sputter.Area)
	}
	if C.RDF.Cutoff <= 0 || C.RDF.Bins <= 0 {
		return errors.Newf("rdf cutoff and bins must be positive, got %g and %d", C.RDF.Cutoff, C.RDF.Bins)
	}
	for _, p := range []string{C.Paths.YamamuraTable, C.Paths.ElasticTemplate, C.Paths.CohesiveTemplate} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return errors.Wrapf(err, "configured path %s", p)
		}
	}
	return nil
}

// CatalogDir returns the catalog directory configured for system.
// System names are not case sensitive.
func (C *Config) CatalogDir(system string) (string, error) {
	for k, v := range C.Catalog {
		if strings.EqualFold(k, system) {
			return v, nil
		}
	}
	return "", errors.Newf("no catalog configured for system %q", system)
}

// WriteYAML writes the configuration to path as YAML.
func (C *Config) WriteYAML(path string) error {
	b, err := yaml.Marshal(C)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, b, 0o644), "writing %s", path)
}

func (C *Config) String() string {
	return fmt.Sprintf("espresso %s/%s, sputter %s every %d steps, rdf %g A/%d bins",
		C.Espresso.Input, C.Espresso.Output, C.Sputter.Dump, C.Sputter.Interval, C.RDF.Cutoff, C.RDF.Bins)
}
