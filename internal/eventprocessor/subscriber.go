// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
)

// Subscriber wraps a Watermill subscriber.
type Subscriber struct {
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter
}

// NewSubscriber creates a JetStream subscriber bound to cfg.StreamName.
// Without a queue group and durable name it creates an ephemeral consumer
// that only receives new messages.
func NewSubscriber(cfg *SubscriberConfig, logger watermill.LoggerAdapter) (*Subscriber, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("Subscriber disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("Subscriber reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	subOpts := []natsgo.SubOpt{
		natsgo.MaxDeliver(cfg.MaxDeliver),
		natsgo.MaxAckPending(cfg.MaxAckPending),
		natsgo.AckWait(cfg.AckWaitTimeout),
		natsgo.DeliverNew(),
	}

	autoProvision := true
	if cfg.StreamName != "" {
		subOpts = append(subOpts, natsgo.BindStream(cfg.StreamName))
		autoProvision = false
	}

	wmConfig := wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:         false,
			AutoProvision:    autoProvision,
			AckAsync:         false,
			SubscribeOptions: subOpts,
			DurablePrefix:    cfg.DurableName,
		},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return NewSubscriberFrom(sub, logger), nil
}

// NewSubscriberFrom wraps any Watermill subscriber, such as a gochannel.
func NewSubscriberFrom(sub message.Subscriber, logger watermill.LoggerAdapter) *Subscriber {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Subscriber{subscriber: sub, logger: logger}
}

// Subscribe returns a channel of messages for topic. The channel closes when
// ctx is cancelled or the subscriber is closed.
func (s *Subscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return s.subscriber.Subscribe(ctx, topic)
}

// Close shuts down the underlying subscriber.
func (s *Subscriber) Close() error {
	return s.subscriber.Close()
}

// EventHandlerFunc processes one decoded event.
type EventHandlerFunc func(ctx context.Context, event *DomainEvent) error

// Consume decodes messages from topic and hands them to fn until ctx is
// cancelled or the channel closes. Handler errors nack the message; payloads
// that do not decode are acked and dropped so they are not redelivered.
func (s *Subscriber) Consume(ctx context.Context, topic string, fn EventHandlerFunc) error {
	messages, err := s.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			s.process(ctx, msg, fn)
		}
	}
}

func (s *Subscriber) process(ctx context.Context, msg *message.Message, fn EventHandlerFunc) {
	event, err := DeserializeEvent(msg.Payload)
	if err != nil {
		s.logger.Error("Dropping undecodable event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		msg.Ack()
		return
	}

	if err := fn(ctx, event); err != nil {
		s.logger.Error("Event handler failed", err, watermill.LogFields{
			"message_uuid": msg.UUID,
			"event_type":   event.Type,
		})
		msg.Nack()
		return
	}
	msg.Ack()
}
