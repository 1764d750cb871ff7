package service

import (
	"sync"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
)

type EventPublisher interface {
	Publish(videoID string, event Event)
}

// Event is a progress notification for one video. Type is "status" for
// lifecycle moves and "progress" for task updates while processing.
type Event struct {
	Type        string             `json:"type"`
	Orientation domain.Orientation `json:"orientation,omitempty"`
	Status      domain.JobStatus   `json:"status"`
	Percentage  int                `json:"percentage"`
	Profiles    []string           `json:"profiles,omitempty"`
	Message     string             `json:"message,omitempty"`
}

func eventFromJob(kind string, job *domain.TranscodeJob) Event {
	return Event{
		Type:        kind,
		Orientation: job.Orientation,
		Status:      job.Status,
		Percentage:  job.Percentage(),
		Profiles:    job.InFlightProfiles(),
		Message:     job.Error,
	}
}

type EventBus struct {
	subscribers map[string][]chan Event
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
	}
}

func (eb *EventBus) Subscribe(videoID string) chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, 16)
	eb.subscribers[videoID] = append(eb.subscribers[videoID], ch)
	return ch
}

func (eb *EventBus) Unsubscribe(videoID string, ch chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[videoID]
	for i, sub := range subs {
		if sub == ch {
			eb.subscribers[videoID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}

	if len(eb.subscribers[videoID]) == 0 {
		delete(eb.subscribers, videoID)
	}
}

// Publish never blocks. A slow subscriber misses progress events; a
// terminal event evicts the oldest queued ones instead of being dropped.
func (eb *EventBus) Publish(videoID string, event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	terminal := event.Status.IsTerminal()
	for _, ch := range eb.subscribers[videoID] {
		select {
		case ch <- event:
			continue
		default:
		}
		if terminal {
			evictAndSend(ch, event)
		}
	}
}

func evictAndSend(ch chan Event, event Event) {
	for range cap(ch) {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
			return
		default:
		}
	}
}

func (eb *EventBus) SubscriberCount(videoID string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers[videoID])
}
