// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package eventbus defines a minimal publish/subscribe contract decoupled
// from any specific broker, per spec.md §9's design note, so tests can
// substitute an in-memory bus for the NATS JetStream implementation used in
// production. Delivery is at-least-once; Handler implementations must be
// idempotent.
package eventbus

import "context"

// Message is one delivered bus message. Key carries the partition key
// (corp_code for the inbound topic, partner UUID for the outbound one) so
// ordering guarantees hold per spec.md §5. Ack must be called once the
// handler has durably processed the message; failing to call it causes
// redelivery on at-least-once implementations.
type Message struct {
	Key     string
	Payload []byte
	Ack     func() error
}

// Handler processes one message. Returning an error does not retry the
// message on this bus's contract — callers are expected to log and
// acknowledge per spec.md §4.4's partial-failure policy; the bus itself
// never implements a retry loop.
type Handler func(ctx context.Context, msg Message) error

// Subscription represents an active subscribe loop. Closing it stops
// delivery and releases any underlying consumer resources.
type Subscription interface {
	Close() error
}

// Bus is the contract every broker-specific adapter implements.
type Bus interface {
	// Publish sends payload to topic, keyed by key for partition ordering.
	// Producer failures are logged by the caller and must not abort the
	// caller's own transaction — see spec.md §4.3.
	Publish(ctx context.Context, topic, key string, payload []byte) error

	// Subscribe starts a consumer in group on topic, invoking handler for
	// each delivered message. Concurrency across partitions is the
	// implementation's responsibility; within one partition, messages are
	// delivered strictly in arrival order.
	Subscribe(ctx context.Context, topic, group string, handler Handler) (Subscription, error)

	// Close releases the bus's underlying connection.
	Close() error
}
