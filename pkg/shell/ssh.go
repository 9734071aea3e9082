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

// Package shell drives interactive SSH sessions on switches. The remote side
// speaks no structured protocol; command completion is inferred from output
// content by the Driver.
package shell

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

const recvBufferSize = 8192

// DialSSH opens a password-authenticated SSH connection to host:22.
func DialSSH(ctx context.Context, host, user, password string, timeout time.Duration) (Client, error) {
	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // switches use per-site host keys
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(host, "22")

	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}

	return &sshClient{client: ssh.NewClient(sshConn, chans, reqs)}, nil
}

type sshClient struct {
	client *ssh.Client
}

// OpenShell starts a PTY-backed interactive shell channel. A fresh channel is
// opened per logical context; the underlying connection is reused.
func (c *sshClient) OpenShell() (Session, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH session: %w", err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}

	if err := session.RequestPty("vt100", 120, 40, modes); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("PTY request failed: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := session.Shell(); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to start shell: %w", err)
	}

	s := &sshSession{
		session: session,
		stdin:   stdin,
		chunks:  make(chan string, 64),
		done:    make(chan struct{}),
	}

	go s.pump(stdout)

	return s, nil
}

func (c *sshClient) Close() error {
	return c.client.Close()
}

// sshSession adapts the blocking stdout pipe to the non-blocking Recv
// contract by pumping reads into a buffered channel. The done channel stops
// the pump once the session is closed, so a full channel cannot park the
// goroutine forever.
type sshSession struct {
	session   *ssh.Session
	stdin     io.WriteCloser
	chunks    chan string
	done      chan struct{}
	closeOnce sync.Once
}

func (s *sshSession) pump(stdout io.Reader) {
	defer close(s.chunks)

	buf := make([]byte, recvBufferSize)

	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			select {
			case s.chunks <- string(buf[:n]):
			case <-s.done:
				return
			}
		}

		if err != nil {
			return
		}
	}
}

func (s *sshSession) Send(text string) error {
	if _, err := s.stdin.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write to shell: %w", err)
	}

	return nil
}

// Recv returns immediately available output, or ("", false) when the channel
// is quiet right now.
func (s *sshSession) Recv() (string, bool) {
	select {
	case chunk, open := <-s.chunks:
		if !open {
			return "", false
		}

		return chunk, true
	default:
		return "", false
	}
}

func (s *sshSession) Close() error {
	s.closeOnce.Do(func() { close(s.done) })

	_ = s.stdin.Close()

	return s.session.Close()
}
