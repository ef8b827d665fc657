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

package logutil

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

const (
	// DefaultLogLevel is the log level used when the config leaves it empty.
	DefaultLogLevel = "info"
	// DefaultLogFormat is the default encoder of the log output.
	DefaultLogFormat = "text"
	// DefaultLogMaxSize is the default size of a log file in MB before it
	// rotates.
	DefaultLogMaxSize = 300
)

// FileLogConfig serializes file log related config.
type FileLogConfig struct {
	log.FileLogConfig
}

// LogConfig serializes log related config.
type LogConfig struct {
	log.Config
}

// NewLogConfig creates a LogConfig.
func NewLogConfig(level, format string, fileCfg FileLogConfig) *LogConfig {
	if level == "" {
		level = DefaultLogLevel
	}
	if format == "" {
		format = DefaultLogFormat
	}
	if fileCfg.MaxSize == 0 {
		fileCfg.MaxSize = DefaultLogMaxSize
	}
	return &LogConfig{
		Config: log.Config{
			Level:  level,
			Format: format,
			File:   fileCfg.FileLogConfig,
		},
	}
}

// InitLogger initializes the global logger from cfg and installs it as the
// background logger.
func InitLogger(cfg *LogConfig) error {
	gl, props, err := log.InitLogger(&cfg.Config, zap.AddStacktrace(zap.FatalLevel))
	if err != nil {
		return errors.Trace(err)
	}
	log.ReplaceGlobals(gl, props)
	return nil
}

// BgLogger returns the default global logger.
func BgLogger() *zap.Logger {
	return log.L()
}
