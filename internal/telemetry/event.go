package telemetry

import "time"

// AccessEvent is the JSON event emitted for every access attempt. Mirrors the
// attempt log row; consumed by the telemetry worker.
type AccessEvent struct {
	UserID    string    `json:"userId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
