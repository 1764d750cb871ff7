package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/service"
)

const keepAliveInterval = 15 * time.Second

type SSEHandler struct {
	eventBus  *service.EventBus
	status    StatusService
	keepAlive time.Duration
}

func NewSSEHandler(eventBus *service.EventBus, status StatusService) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		status:    status,
		keepAlive: keepAliveInterval,
	}
}

// sseWrite writes one event, splitting multi-line data into data lines.
func sseWrite(w http.ResponseWriter, eventName string, data string) {
	_, _ = fmt.Fprintf(w, "event: %s\n", eventName)
	for _, line := range strings.Split(data, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func sseWriteJSON(w http.ResponseWriter, eventName string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	sseWrite(w, eventName, string(data))
}

func sendKeepAlive(w http.ResponseWriter) {
	_, _ = fmt.Fprint(w, ": keep-alive\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// Events streams a "status" event with the current report, then a "progress"
// event per job update and a final "status" event once the video is terminal.
// The stream then stays open until the client closes it, so EventSource does
// not reconnect in a loop.
func (h *SSEHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := videoIDParam(r)
		if err == nil {
			err = service.ValidateVideoID(id)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		// subscribe before reading status so no update falls in between
		ch := h.eventBus.Subscribe(id)
		defer h.eventBus.Unsubscribe(id, ch)

		report, err := h.status.Status(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "status unavailable")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		ctx := r.Context()
		sseWriteJSON(w, "status", report)
		if report.IsTerminal() {
			<-ctx.Done()
			return
		}

		keepAlive := time.NewTicker(h.keepAlive)
		defer keepAlive.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-keepAlive.C:
				sendKeepAlive(w)
				// catches a terminal event the bus dropped
				if h.finishIfTerminal(ctx, w, id) {
					<-ctx.Done()
					return
				}
			case event, ok := <-ch:
				if !ok {
					return
				}
				sseWriteJSON(w, "progress", event)
				// one orientation finishing does not finish a dual video
				if event.Status.IsTerminal() && h.finishIfTerminal(ctx, w, id) {
					<-ctx.Done()
					return
				}
			}
		}
	}
}

// finishIfTerminal sends the final status event once the video is terminal.
func (h *SSEHandler) finishIfTerminal(ctx context.Context, w http.ResponseWriter, id string) bool {
	report, err := h.status.Status(ctx, id)
	if err != nil || !report.IsTerminal() {
		return false
	}
	sseWriteJSON(w, "status", report)
	return true
}
