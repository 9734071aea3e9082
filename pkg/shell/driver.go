/*
 * Copyright 2025 The FabricWatch Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package shell

import (
	"context"
	"strings"
	"time"

	"github.com/fabricwatch/fabricwatch/pkg/logger"
)

const (
	defaultPollInterval      = 100 * time.Millisecond
	defaultSettleDelay       = 2 * time.Second
	defaultGraceWait         = 500 * time.Millisecond
	defaultInactivityTimeout = 30 * time.Second
	defaultMaxDuration       = 5 * time.Minute

	// The switch prints this footer after the last log entry.
	summaryMarker = "Total number of"

	// The shell prompt always carries the physical-switch partition id,
	// regardless of which logical context was queried.
	promptToken = ":FID128:"
)

// DriverConfig bounds the completion-detection loop. Zero values take the
// defaults above.
type DriverConfig struct {
	PollInterval      time.Duration `json:"poll_interval,omitempty"`
	SettleDelay       time.Duration `json:"settle_delay,omitempty"`
	GraceWait         time.Duration `json:"grace_wait,omitempty"`
	InactivityTimeout time.Duration `json:"inactivity_timeout,omitempty"`
	MaxDuration       time.Duration `json:"max_duration,omitempty"`
}

func (c *DriverConfig) withDefaults() DriverConfig {
	out := DriverConfig{}
	if c != nil {
		out = *c
	}

	if out.PollInterval == 0 {
		out.PollInterval = defaultPollInterval
	}

	if out.SettleDelay == 0 {
		out.SettleDelay = defaultSettleDelay
	}

	if out.GraceWait == 0 {
		out.GraceWait = defaultGraceWait
	}

	if out.InactivityTimeout == 0 {
		out.InactivityTimeout = defaultInactivityTimeout
	}

	if out.MaxDuration == 0 {
		out.MaxDuration = defaultMaxDuration
	}

	return out
}

// Driver issues one command on an interactive shell and accumulates output
// until the command is judged complete. The shell has no framing and no done
// signal; completion is inferred from two independent content flags (the
// switch's own summary footer and the physical-switch prompt), with an
// inactivity window and an absolute ceiling as safety exits.
type Driver struct {
	config DriverConfig
	logger logger.Logger
}

func NewDriver(config *DriverConfig, log logger.Logger) *Driver {
	return &Driver{
		config: config.withDefaults(),
		logger: log,
	}
}

// Run discards any banner noise buffered on the session, sends the command,
// and collects output until completion. Whatever was captured is returned
// even on a safety exit; only transport or context errors are fatal.
func (d *Driver) Run(ctx context.Context, sess Session, command string) (string, error) {
	d.waitOrCancel(ctx, d.config.SettleDelay)

	discarded := 0

	// The banner drain is bounded: a device that streams continuously must
	// not pin the collector before the command was even sent.
	drainDeadline := time.Now().Add(d.config.SettleDelay)

	for time.Now().Before(drainDeadline) {
		chunk, ok := sess.Recv()
		if !ok {
			break
		}

		discarded += len(chunk)
	}

	if discarded > 0 {
		d.logger.Debug().Int("bytes", discarded).Msg("Discarded shell banner output")
	}

	if err := sess.Send(command + "\n"); err != nil {
		return "", err
	}

	return d.awaitCompletion(ctx, sess, command)
}

func (d *Driver) awaitCompletion(ctx context.Context, sess Session, command string) (string, error) {
	var output strings.Builder

	start := time.Now()
	lastActivity := start
	hasSummary := false
	hasPrompt := false

	for {
		if err := ctx.Err(); err != nil {
			return output.String(), err
		}

		// The ceiling is absolute: it fires even while output is still
		// streaming, flags or not.
		if time.Since(start) > d.config.MaxDuration {
			d.logger.Warn().
				Dur("ceiling", d.config.MaxDuration).
				Str("command", command).
				Msg("Maximum command duration reached, stopping")

			return output.String(), nil
		}

		chunk, ok := sess.Recv()
		if ok && chunk != "" {
			output.WriteString(chunk)
			lastActivity = time.Now()

			if !hasSummary && strings.Contains(chunk, summaryMarker) {
				hasSummary = true

				d.logger.Debug().
					Dur("elapsed", time.Since(start)).
					Str("command", command).
					Msg("Log summary footer seen")
			}

			if !hasPrompt && containsPrompt(chunk) {
				hasPrompt = true

				d.logger.Debug().
					Dur("elapsed", time.Since(start)).
					Str("command", command).
					Msg("Physical switch prompt seen")
			}

			if hasSummary && hasPrompt {
				d.drainRemaining(ctx, sess, &output)

				d.logger.Debug().
					Dur("elapsed", time.Since(start)).
					Int("bytes", output.Len()).
					Msg("Command completed")

				return output.String(), nil
			}

			continue
		}

		if time.Since(lastActivity) > d.config.InactivityTimeout {
			d.logger.Warn().
				Dur("inactivity", d.config.InactivityTimeout).
				Str("command", command).
				Msg("No shell activity, assuming command completed")

			return output.String(), nil
		}

		d.waitOrCancel(ctx, d.config.PollInterval)
	}
}

// drainRemaining collects output that was already in flight when both
// completion flags fired, so nothing captured before the detection point is
// lost. Bounded like the banner drain.
func (d *Driver) drainRemaining(ctx context.Context, sess Session, output *strings.Builder) {
	d.waitOrCancel(ctx, d.config.GraceWait)

	deadline := time.Now().Add(d.config.GraceWait)

	for time.Now().Before(deadline) {
		chunk, ok := sess.Recv()
		if !ok {
			return
		}

		output.WriteString(chunk)
	}
}

func (d *Driver) waitOrCancel(ctx context.Context, duration time.Duration) {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func containsPrompt(chunk string) bool {
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, promptToken) && strings.HasSuffix(line, ">") {
			return true
		}
	}

	return false
}
