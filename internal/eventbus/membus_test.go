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
	"errors"
	"testing"
)

func TestMemBus_PublishDeliversToSubscriber(t *testing.T) {
	bus := NewMemBus()

	var got Message
	calls := 0
	_, err := bus.Subscribe(context.Background(), "partner-company-events", "test-group", func(ctx context.Context, msg Message) error {
		calls++
		got = msg
		return msg.Ack()
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := bus.Publish(context.Background(), "partner-company-events", "00126380", []byte("payload")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected 1 delivery, got %d", calls)
	}
	if got.Key != "00126380" || string(got.Payload) != "payload" {
		t.Errorf("unexpected message: %+v", got)
	}
}

func TestMemBus_HandlerErrorPropagates(t *testing.T) {
	bus := NewMemBus()
	wantErr := errors.New("boom")

	_, err := bus.Subscribe(context.Background(), "t", "g", func(ctx context.Context, msg Message) error {
		return wantErr
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := bus.Publish(context.Background(), "t", "k", nil); !errors.Is(err, wantErr) {
		t.Fatalf("Publish err = %v, want %v", err, wantErr)
	}
}

func TestMemBus_ClosedSubscriptionDoesNotReceive(t *testing.T) {
	bus := NewMemBus()
	calls := 0

	sub, err := bus.Subscribe(context.Background(), "t", "g", func(ctx context.Context, msg Message) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := bus.Publish(context.Background(), "t", "k", nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no deliveries after close, got %d", calls)
	}
}

func TestMemBus_MultipleSubscribersAllReceive(t *testing.T) {
	bus := NewMemBus()
	var calls [2]int

	for i := range calls {
		i := i
		_, err := bus.Subscribe(context.Background(), "t", "g", func(ctx context.Context, msg Message) error {
			calls[i]++
			return nil
		})
		if err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}

	if err := bus.Publish(context.Background(), "t", "k", nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if calls[0] != 1 || calls[1] != 1 {
		t.Fatalf("expected both subscribers to receive once, got %v", calls)
	}
}
