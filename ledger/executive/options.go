// Copyright 2026 Blink Labs Software
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

package executive

import (
	"log/slog"
	"runtime"
)

// HeightProvider returns the current block height, which is exposed to
// verifiers and constraint checkers through common.Environment
type HeightProvider func() uint32

// StaticHeightProvider returns a HeightProvider that always reports height
func StaticHeightProvider(height uint32) HeightProvider {
	return func() uint32 {
		return height
	}
}

// Config holds configuration for an Executive
type Config struct {
	// Logger is used for per-transaction debug logging. Defaults to slog.Default()
	Logger *slog.Logger
	// HeightProvider supplies the environment for Validate and Apply. Defaults to height 0.
	// ApplyBlock uses the height it is given instead
	HeightProvider HeightProvider
	// ValidateWorkers limits the number of concurrent validations in ValidateAll
	ValidateWorkers int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Logger:          slog.Default(),
		HeightProvider:  StaticHeightProvider(0),
		ValidateWorkers: runtime.NumCPU(),
	}
}

// Option is a functional option for configuring an Executive
type Option func(*Config)

// WithConfig applies a complete Config, replacing all default values.
// Options applied after WithConfig still override the config values
func WithConfig(config Config) Option {
	return func(c *Config) {
		*c = config
	}
}

// WithLogger specifies the logger to use. A nil logger is ignored
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithHeightProvider specifies where the current block height comes from
func WithHeightProvider(provider HeightProvider) Option {
	return func(c *Config) {
		if provider != nil {
			c.HeightProvider = provider
		}
	}
}

// WithValidateWorkers sets the number of concurrent validations in ValidateAll
func WithValidateWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.ValidateWorkers = n
		}
	}
}
