package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventNotifyMatch EventType = "notify-match"
)

// PushEnvelope is the JSON body Pub/Sub posts to push subscriptions.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"`
	} `json:"message"`
}
