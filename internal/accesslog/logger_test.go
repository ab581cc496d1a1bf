package accesslog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"live-session-gateway/internal/accesslog/domain"
	"live-session-gateway/internal/telemetry"
)

type memRepo struct {
	mu       sync.Mutex
	attempts []*domain.Attempt
	denied   int
	err      error
}

func (m *memRepo) Create(_ context.Context, a *domain.Attempt) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *memRepo) CountDeniedSince(context.Context, string, time.Time) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.denied, nil
}

type captureEmitter struct {
	mu     sync.Mutex
	events []*telemetry.AccessEvent
}

func (c *captureEmitter) Emit(_ context.Context, e *telemetry.AccessEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func TestAppendFillsDefaultsAndClientInfo(t *testing.T) {
	repo := &memRepo{}
	l := NewLogger(repo, nil, 0, 0)

	ctx := WithClientInfo(context.Background(), ClientInfo{
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	})
	l.Append(ctx, domain.Attempt{
		UserID:    "user-1",
		SessionID: "sess-1",
		Status:    domain.StatusDenied,
		Reason:    "expired",
	})

	if len(repo.attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(repo.attempts))
	}
	a := repo.attempts[0]
	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatal("expected ID and CreatedAt to be filled")
	}
	if a.IPAddress != "203.0.113.9" || a.UserAgent != "test-agent" {
		t.Fatalf("client info not applied: %+v", a)
	}
}

func TestAppendSwallowsRepoErrors(t *testing.T) {
	l := NewLogger(&memRepo{err: errors.New("db down")}, nil, 0, 0)
	// Must not panic or block; Append is best-effort.
	l.Append(context.Background(), domain.Attempt{UserID: "user-1", Status: domain.StatusDenied})
}

func TestAppendMirrorsToTelemetry(t *testing.T) {
	emitter := &captureEmitter{}
	l := NewLogger(&memRepo{}, emitter, 0, 0)

	l.Append(context.Background(), domain.Attempt{
		UserID:    "user-1",
		SessionID: "sess-1",
		Status:    domain.StatusSuccess,
	})

	// EmitAsync is fire-and-forget; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		emitter.mu.Lock()
		n := len(emitter.events)
		emitter.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("telemetry events = %d, want 1", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIsSuspiciousThreshold(t *testing.T) {
	repo := &memRepo{denied: 10}
	l := NewLogger(repo, nil, time.Hour, 10)

	got, err := l.IsSuspicious(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("IsSuspicious: %v", err)
	}
	if got {
		t.Fatal("count equal to threshold should not be suspicious")
	}

	repo.denied = 11
	got, err = l.IsSuspicious(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("IsSuspicious: %v", err)
	}
	if !got {
		t.Fatal("count above threshold should be suspicious")
	}
}

func TestIsSuspiciousPropagatesErrors(t *testing.T) {
	l := NewLogger(&memRepo{err: errors.New("db down")}, nil, time.Hour, 10)
	if _, err := l.IsSuspicious(context.Background(), "user-1"); err == nil {
		t.Fatal("expected error from failing repository")
	}
}
