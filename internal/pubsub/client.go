package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a Pub/Sub publisher for projectID.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		pubSubC.Close()
	}

	return &client{
		client:   pubSubC,
		teardown: teardown,
	}, nil
}

// SendMessage publishes data as MessagePack and waits for the server to acknowledge it.
func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: msgpackData,
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	log.Debug("SendMessage", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (c *client) Close() error {
	c.teardown()
	return nil
}

// Decode unmarshals a MessagePack payload into returnValue.
func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}

// ParsePush extracts the raw message payload from a push request body.
func ParsePush(body []byte) (*PushEnvelope, []byte, error) {
	var envelope PushEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, fmt.Errorf("invalid push envelope: %w", err)
	}
	rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid push data: %w", err)
	}
	return &envelope, rawData, nil
}
