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

package pipeline

import (
	"log/slog"
	"runtime"
)

// DefaultMaxPending bounds the out-of-order items buffered by the apply stage
const DefaultMaxPending = 4096

type Config struct {
	// DecodeWorkers is the number of parallel decode workers
	DecodeWorkers int
	// ValidateWorkers is the number of parallel validate workers. Validation
	// is skipped when this is 0 or no ValidateFunc is given
	ValidateWorkers int
	// BufferSize is the capacity of the channels between stages
	BufferSize int
	// MaxPending limits out-of-order items buffered in the apply stage
	MaxPending int
	Logger     *slog.Logger
}

func DefaultConfig() Config {
	numCPU := runtime.NumCPU()
	// Decoding is cheaper than validating, which needs store reads and signature checks
	decodeWorkers := max(numCPU/4, 2)
	return Config{
		DecodeWorkers:   decodeWorkers,
		ValidateWorkers: numCPU,
		BufferSize:      1000,
		MaxPending:      DefaultMaxPending,
	}
}

type Option func(*Config)

func WithConfig(config Config) Option {
	return func(c *Config) {
		*c = config
	}
}

func WithDecodeWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.DecodeWorkers = n
		}
	}
}

func WithValidateWorkers(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.ValidateWorkers = n
		}
	}
}

func WithBufferSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.BufferSize = size
		}
	}
}

func WithMaxPending(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxPending = n
		}
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
