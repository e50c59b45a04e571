// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewInProcessBus returns a publisher and subscriber sharing one Go channel
// pub/sub. Used when NATS is disabled and in tests. Messages published while
// nobody is subscribed are dropped.
func NewInProcessBus(logger watermill.LoggerAdapter) (*Publisher, *Subscriber) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	bus := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)
	return NewPublisherFrom(bus, logger), NewSubscriberFrom(bus, logger)
}
