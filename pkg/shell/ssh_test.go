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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// endlessReader never blocks and never errors, modelling a stdout pipe that
// keeps delivering data.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}

	return len(p), nil
}

func TestPumpStopsWhenSessionCloses(t *testing.T) {
	// A reader that outpaces the consumer fills the chunk channel; closing
	// the session must still release the pump instead of leaving it parked
	// on a blocked send.
	s := &sshSession{
		chunks: make(chan string, 1),
		done:   make(chan struct{}),
	}

	pumpExited := make(chan struct{})

	go func() {
		s.pump(endlessReader{})
		close(pumpExited)
	}()

	// Wait until the channel is full, which parks the pump on its send.
	require.Eventually(t, func() bool {
		return len(s.chunks) == cap(s.chunks)
	}, time.Second, time.Millisecond)

	s.closeOnce.Do(func() { close(s.done) })

	select {
	case <-pumpExited:
	case <-time.After(time.Second):
		t.Fatal("pump did not stop after session close")
	}

	// The pump closed its channel on the way out.
	for range s.chunks {
	}
}
