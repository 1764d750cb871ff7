package domain

import (
	"fmt"
	"time"
)

// Strategy names the mechanism used to hand a job to compute.
type Strategy string

const (
	StrategyPubSub Strategy = "pubsub"
	StrategyHTTP   Strategy = "http"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyPubSub, StrategyHTTP:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown dispatch strategy %q (supported: pubsub, http)", s)
	}
}

// DispatchMessage is the payload published to the topic.
type DispatchMessage struct {
	VideoID     string      `json:"videoId"`
	InputURI    string      `json:"inputUri"`
	Timestamp   time.Time   `json:"timestamp"`
	Orientation Orientation `json:"orientation,omitempty"`
}

func (m DispatchMessage) Validate() error {
	if m.VideoID == "" {
		return &ValidationError{Field: "videoId", Reason: "required"}
	}
	if m.InputURI == "" {
		return &ValidationError{Field: "inputUri", Reason: "required"}
	}
	return nil
}

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	VideoID     string      `json:"video_id"`
	InputURI    string      `json:"input_uri"`
	Orientation Orientation `json:"orientation,omitempty"`
}

func (r ProcessRequest) Message(now time.Time) DispatchMessage {
	return DispatchMessage{
		VideoID:     r.VideoID,
		InputURI:    r.InputURI,
		Timestamp:   now.UTC(),
		Orientation: r.Orientation,
	}
}

// Delivery is a claimed dispatch message. Attempts counts prior deliveries.
type Delivery struct {
	ID       string
	Message  DispatchMessage
	Attempts int64
}
