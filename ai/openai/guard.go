// Copyright 2025 Poiesic Systems
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

package openai

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/poiesic/alphagraph/ai"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// guard applies the configured rate limit and circuit breaker to calls
// against a single host.
type guard struct {
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[any]
}

// newGuard builds a guard named after the host it protects. A zero rate and
// zero failure threshold produce a pass-through guard.
func newGuard(name string, config *ai.Config, logger *slog.Logger) *guard {
	g := &guard{}

	if config.RequestsPerSecond > 0 {
		burst := int(math.Ceil(config.RequestsPerSecond))
		g.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	if config.BreakerFailures > 0 {
		threshold := config.BreakerFailures
		g.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     config.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				// Caller cancellations say nothing about the health of the host.
				return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("circuit breaker state change", "host", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return g
}

// do runs fn once the limiter admits it, through the breaker when enabled.
func (g *guard) do(ctx context.Context, fn func(ctx context.Context) error) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if g.breaker == nil {
		return fn(ctx)
	}
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// IsCircuitOpen reports whether err was returned because a breaker refused the call.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
