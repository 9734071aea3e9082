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
	"time"
)

//go:generate mockgen -destination=mock_shell.go -package=shell github.com/fabricwatch/fabricwatch/pkg/shell Client,Session

// Session is one interactive shell channel on a remote device. Recv never
// blocks: it returns whatever output is immediately available.
type Session interface {
	Send(text string) error
	Recv() (chunk string, ok bool)
	Close() error
}

// Client owns one authenticated connection to a device and can open shell
// channels on it. One connection is shared across all logical contexts of a
// switch and closed when the switch is done.
type Client interface {
	OpenShell() (Session, error)
	Close() error
}

// Dialer opens an authenticated connection to a device. Implemented by the
// SSH transport; replaced in tests.
type Dialer func(ctx context.Context, host, user, password string, timeout time.Duration) (Client, error)
