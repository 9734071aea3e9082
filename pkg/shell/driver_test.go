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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fabricwatch/fabricwatch/pkg/logger"
)

// scriptedSession is a Session whose receive stream is fed from a queue.
// Chunks enqueued before Send simulate login banner noise; onSend scripts the
// response to the issued command.
type scriptedSession struct {
	mu     sync.Mutex
	queue  []string
	sent   []string
	onSend func(command string)
}

func (s *scriptedSession) enqueue(chunks ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, chunks...)
}

func (s *scriptedSession) Send(text string) error {
	s.mu.Lock()
	s.sent = append(s.sent, text)
	s.mu.Unlock()

	if s.onSend != nil {
		s.onSend(text)
	}

	return nil
}

func (s *scriptedSession) Recv() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return "", false
	}

	chunk := s.queue[0]
	s.queue = s.queue[1:]

	return chunk, true
}

func (s *scriptedSession) Close() error { return nil }

func fastDriverConfig() *DriverConfig {
	return &DriverConfig{
		PollInterval:      time.Millisecond,
		SettleDelay:       time.Millisecond,
		GraceWait:         time.Millisecond,
		InactivityTimeout: 5 * time.Second,
		MaxDuration:       10 * time.Second,
	}
}

func TestDriverCompletesOnSummaryAndPrompt(t *testing.T) {
	sess := &scriptedSession{}
	sess.enqueue("login banner noise\n")
	sess.onSend = func(string) {
		sess.enqueue(
			"Wed Jun 28 02:07:20.885  2/14  510a00  10:00:00:00:C9:2F:1E:EF  20:00:00:00:C9:2F:1E:EF  Device Online\n",
			"Total number of Entries displayed = 1\n",
			"swd77:FID128:admin> ",
		)
	}

	driver := NewDriver(fastDriverConfig(), logger.NewTestLogger())

	start := time.Now()

	output, err := driver.Run(context.Background(), sess, "nsdevlog --show")
	require.NoError(t, err)

	// Both flags fired; the driver must not have waited out the inactivity
	// or ceiling bounds.
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Contains(t, output, "Device Online")
	assert.Contains(t, output, "Total number of Entries displayed = 1")
	assert.NotContains(t, output, "login banner noise")

	require.Len(t, sess.sent, 1)
	assert.Equal(t, "nsdevlog --show\n", sess.sent[0])
}

func TestDriverPreservesOutputInFlightAtDetection(t *testing.T) {
	sess := &scriptedSession{}
	sess.onSend = func(string) {
		sess.enqueue(
			"entry one\n",
			"Total number of Entries displayed = 2\nswd77:FID128:admin> ",
			"trailing flush\n",
		)
	}

	driver := NewDriver(fastDriverConfig(), logger.NewTestLogger())

	output, err := driver.Run(context.Background(), sess, "nsdevlog --show")
	require.NoError(t, err)

	assert.Contains(t, output, "entry one")
	assert.Contains(t, output, "trailing flush")
}

func TestDriverSummaryAloneDoesNotComplete(t *testing.T) {
	cfg := fastDriverConfig()
	cfg.InactivityTimeout = 50 * time.Millisecond

	sess := &scriptedSession{}
	sess.onSend = func(string) {
		sess.enqueue("Total number of Entries displayed = 0\n")
	}

	driver := NewDriver(cfg, logger.NewTestLogger())

	start := time.Now()

	output, err := driver.Run(context.Background(), sess, "nsdevlog --show")
	require.NoError(t, err)

	// Without the prompt flag the driver falls through to the inactivity
	// exit, keeping what it captured.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Contains(t, output, "Total number of Entries displayed = 0")
}

func TestDriverInactivityExitKeepsPartialOutput(t *testing.T) {
	cfg := fastDriverConfig()
	cfg.InactivityTimeout = 30 * time.Millisecond

	sess := &scriptedSession{}
	sess.onSend = func(string) {
		sess.enqueue("partial output that never finishes\n")
	}

	driver := NewDriver(cfg, logger.NewTestLogger())

	output, err := driver.Run(context.Background(), sess, "nsdevlog --show")
	require.NoError(t, err)
	assert.Contains(t, output, "partial output that never finishes")
}

// endlessSession streams marker-less data on every Recv, modelling a device
// stuck in a flood. Neither completion flag ever fires.
type endlessSession struct{}

func (endlessSession) Send(string) error    { return nil }
func (endlessSession) Recv() (string, bool) { return "flood line without markers\n", true }
func (endlessSession) Close() error         { return nil }

func TestDriverMaxDurationCeiling(t *testing.T) {
	cfg := fastDriverConfig()
	cfg.MaxDuration = 100 * time.Millisecond

	driver := NewDriver(cfg, logger.NewTestLogger())

	start := time.Now()

	output, err := driver.Run(context.Background(), endlessSession{}, "nsdevlog --show")
	require.NoError(t, err)

	// The ceiling bounds the run even though data never stops arriving and
	// the inactivity window never opens.
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, output, "flood line without markers")
}

func TestDriverContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sess := &scriptedSession{}
	sess.onSend = func(string) {
		sess.enqueue("some output\n")
		cancel()
	}

	driver := NewDriver(fastDriverConfig(), logger.NewTestLogger())

	_, err := driver.Run(ctx, sess, "nsdevlog --show")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContainsPrompt(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  bool
	}{
		{
			name:  "physical switch prompt",
			chunk: "swd77:FID128:admin> ",
			want:  true,
		},
		{
			name:  "prompt embedded after output",
			chunk: "last entry line\nswd77:FID128:admin>",
			want:  true,
		},
		{
			name:  "logical context prompt does not count",
			chunk: "swd77:FID1:admin> ",
			want:  false,
		},
		{
			name:  "token without trailing prompt marker",
			chunk: "something :FID128: mid-line",
			want:  false,
		},
		{
			name:  "empty chunk",
			chunk: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPrompt(tt.chunk))
		})
	}
}

func TestDriverSendFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sess := NewMockSession(ctrl)

	sess.EXPECT().Recv().Return("", false).AnyTimes()
	sess.EXPECT().Send("boom\n").Return(errSendFailed)

	driver := NewDriver(fastDriverConfig(), logger.NewTestLogger())

	_, err := driver.Run(context.Background(), sess, "boom")
	require.Error(t, err)
	assert.ErrorIs(t, err, errSendFailed)
}

var errSendFailed = errors.New("send failed")

var _ Session = (*scriptedSession)(nil)
