package ws

import (
	"encoding/json"
	"time"
)

const (
	EventControllerChange = "controllerchange"
	EventDatasetRefreshed = "dataset_refreshed"
)

type Event struct {
	Type      string `json:"type"`
	Version   string `json:"version,omitempty"`
	Key       string `json:"key,omitempty"`
	Timestamp string `json:"timestamp"`
}

func encodeEvent(typ, version, key string) ([]byte, bool) {
	b, err := json.Marshal(Event{
		Type:      typ,
		Version:   version,
		Key:       key,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return b, err == nil
}

// Claim tells every open page that the worker for version now controls it.
func (h *Hub) Claim(version string) {
	if h == nil {
		return
	}
	h.setController(version)
	if b, ok := encodeEvent(EventControllerChange, version, ""); ok {
		h.Broadcast(b)
	}
}

// NotifyDatasetRefreshed is sent after a network-first request replaced the cached copy.
func (h *Hub) NotifyDatasetRefreshed(key string) {
	if h == nil {
		return
	}
	if b, ok := encodeEvent(EventDatasetRefreshed, "", key); ok {
		h.Broadcast(b)
	}
}
