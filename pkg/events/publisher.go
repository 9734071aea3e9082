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

// Package events publishes collection lifecycle events as CloudEvents over
// NATS JetStream. Publishing is optional; a nil publisher is a no-op.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/fabricwatch/fabricwatch/pkg/logger"
	"github.com/fabricwatch/fabricwatch/pkg/models"
)

const (
	eventSource        = "fabricwatch/collectord"
	eventTypeCompleted = "com.fabricwatch.collection.completed"
	eventTypeFailed    = "com.fabricwatch.collection.failed"

	defaultSubject = "events.collection"
)

// Publisher emits collection-run events to a JetStream stream.
type Publisher struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	subject string
	logger  logger.Logger
}

// NewPublisher connects to NATS and prepares a JetStream context. The stream
// itself is expected to exist; stream provisioning is an operator concern.
func NewPublisher(config *models.NATSConfig, log logger.Logger) (*Publisher, error) {
	nc, err := nats.Connect(config.URL, nats.Name("fabricwatch-collectord"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	subject := config.Subject
	if subject == "" {
		subject = defaultSubject
	}

	return &Publisher{nc: nc, js: js, subject: subject, logger: log}, nil
}

// PublishRunCompleted emits the terminal event for a collection run. The
// event type reflects the run's final status.
func (p *Publisher) PublishRunCompleted(ctx context.Context, summary *models.CollectionSummary) error {
	if p == nil {
		return nil
	}

	eventType := eventTypeCompleted
	if summary.Status == models.RunStatusFailed {
		eventType = eventTypeFailed
	}

	now := time.Now()

	event := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         p.subject,
		Time:            &now,
		Data: models.CollectionEventData{
			RunID:          summary.CollectionID,
			Status:         summary.Status,
			TotalEntries:   summary.TotalEntries,
			NewEntries:     summary.NewEntries,
			SwitchCount:    summary.SwitchesProcessed,
			FailedSwitches: summary.FailedSwitches(),
			StartedAt:      summary.StartedAt,
			CompletedAt:    summary.CompletedAt,
		},
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal collection event: %w", err)
	}

	ack, err := p.js.Publish(ctx, event.Subject, payload)
	if err != nil {
		return fmt.Errorf("failed to publish collection event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", event.Subject).
		Uint64("sequence", ack.Sequence).
		Msg("Published collection event")

	return nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}

	p.nc.Close()
}
