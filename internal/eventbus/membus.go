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
package eventbus

import (
	"context"
	"sync"
)

// MemBus is an in-process Bus that keeps a list of subscriptions per topic
// and calls their handlers directly from Publish; it uses no channels or
// goroutines. For tests this means a message has reached every open
// subscription on its topic before Publish returns, so tests don't need to
// poll. A handler error stops delivery to the subscriptions after it.
type MemBus struct {
	mu   sync.Mutex
	subs map[string][]*memSubscription
}

// NewMemBus constructs an empty in-memory bus.
func NewMemBus() *MemBus {
	return &MemBus{subs: make(map[string][]*memSubscription)}
}

type memSubscription struct {
	bus     *MemBus
	topic   string
	handler Handler
	closed  bool
}

func (s *memSubscription) Close() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.closed = true
	return nil
}

// Publish invokes every handler subscribed to topic synchronously in the
// calling goroutine, in the order they subscribed. A handler error is
// returned to the caller immediately rather than silently dropped, since
// MemBus exists for deterministic tests, not production delivery.
func (b *MemBus) Publish(ctx context.Context, topic, key string, payload []byte) error {
	b.mu.Lock()
	subs := append([]*memSubscription(nil), b.subs[topic]...)
	b.mu.Unlock()

	for _, sub := range subs {
		if sub.closed {
			continue
		}
		acked := false
		msg := Message{
			Key:     key,
			Payload: payload,
			Ack:     func() error { acked = true; return nil },
		}
		if err := sub.handler(ctx, msg); err != nil {
			return err
		}
		_ = acked
	}
	return nil
}

// Subscribe registers handler on topic. group is accepted for interface
// parity with the NATS implementation but MemBus delivers to every
// subscriber regardless of group, since tests only ever register one
// consumer per topic.
func (b *MemBus) Subscribe(ctx context.Context, topic, group string, handler Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &memSubscription{bus: b, topic: topic, handler: handler}
	b.subs[topic] = append(b.subs[topic], sub)
	return sub, nil
}

// Close is a no-op; MemBus holds no external resources.
func (b *MemBus) Close() error {
	return nil
}
