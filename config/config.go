// Copyright 2024 PerchDB, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"go.uber.org/atomic"

	"github.com/perchdb/perch/util/logutil"
)

// Config contains configuration options.
type Config struct {
	Log         Log         `toml:"log" json:"log"`
	Performance Performance `toml:"performance" json:"performance"`
	Status      Status      `toml:"status" json:"status"`
}

// Log is the log section of config.
type Log struct {
	// Level is the log level, one of debug, info, warn, error, fatal.
	Level string `toml:"level" json:"level"`
	// Format is the log format, one of text or json.
	Format string `toml:"format" json:"format"`
	// File is the file log config.
	File logutil.FileLogConfig `toml:"file" json:"file"`
}

// ToLogConfig converts the section to a logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, l.File)
}

// Performance is the performance section of the config.
type Performance struct {
	// UseIndexes controls whether index-table plans are considered at all.
	// With it off every query scans the data table.
	UseIndexes bool `toml:"use-indexes" json:"use-indexes"`
}

// Status is the status section of the config.
type Status struct {
	ReportStatus bool   `toml:"report-status" json:"report-status"`
	MetricsAddr  string `toml:"metrics-addr" json:"metrics-addr"`
}

var defaultConf = Config{
	Log: Log{
		Level:  logutil.DefaultLogLevel,
		Format: logutil.DefaultLogFormat,
	},
	Performance: Performance{
		UseIndexes: true,
	},
	Status: Status{
		ReportStatus: false,
	},
}

var globalConf = atomic.NewPointer(&defaultConf)

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// GetGlobalConfig returns the global configuration for this server.
// It should store configuration from command line and configuration file.
// Other parts of the system can read the global configuration use this function.
func GetGlobalConfig() *Config {
	return globalConf.Load()
}

// StoreGlobalConfig stores a new config to the globalConf.
func StoreGlobalConfig(config *Config) {
	globalConf.Store(config)
}

// Load loads config options from a toml file.
func (c *Config) Load(confFile string) error {
	_, err := toml.DecodeFile(confFile, c)
	return errors.Trace(err)
}
