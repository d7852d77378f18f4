package pubsub

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/config"

	ps "cloud.google.com/go/pubsub"
)

func TestNewPublisherMissingProject(t *testing.T) {
	if _, err := NewPublisher(context.Background(), &config.Config{}); err == nil {
		t.Fatal("expected an error when the project ID is empty")
	}
}

// The emulator endpoint comes from config, not from the ambient
// PUBSUB_EMULATOR_HOST env var, and the client is built without
// credentials. gRPC dials lazily, so construction succeeds even when
// nothing listens on the endpoint.
func TestNewPublisherEmulatorFromConfig(t *testing.T) {
	t.Setenv("PUBSUB_EMULATOR_HOST", "")
	cfg := &config.Config{GCPProjectID: "test-project", PubSubEmulatorHost: "localhost:8085"}
	pub, err := NewPublisher(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to create publisher for the emulator endpoint: %v", err)
	}
	if pub.client == nil {
		t.Fatal("expected an initialized client")
	}
}

func TestPublishRoundTripWithEmulator(t *testing.T) {
	host := os.Getenv("PUBSUB_EMULATOR_HOST")
	if host == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator round trip")
	}
	ctx := context.Background()

	cfg := &config.Config{GCPProjectID: "test-project", PubSubEmulatorHost: host}
	pub, err := NewPublisher(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create publisher: %v", err)
	}

	topic, err := pub.client.CreateTopic(ctx, "billing-events")
	if err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	sub, err := pub.client.CreateSubscription(ctx, "billing-events-test", ps.SubscriptionConfig{Topic: topic})
	if err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	payload := []byte(`{"status":"ACTIVE"}`)
	msgID, err := pub.Publish(ctx, "billing-events", payload)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if msgID == "" {
		t.Fatal("expected a non-empty message ID")
	}

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	received := make(chan []byte, 1)
	go func() {
		sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			received <- m.Data
			m.Ack()
			cancel()
		})
	}()

	select {
	case data := <-received:
		if string(data) != string(payload) {
			t.Fatalf("got message %q, want %q", data, payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for the message from the emulator subscription")
	}
}
