package sqlite_test

import (
	"context"
	"testing"

	"github.com/jslaski/patchbay/internal/domain"
)

func TestStatusEventRepository_RecordAndListRecent(t *testing.T) {
	s := newTestStore(t)
	events := s.StatusEvents()
	ctx := context.Background()

	services, err := s.Services().List(ctx)
	if err != nil {
		t.Fatalf("List services: %v", err)
	}
	svc := services[0]

	transitions := []struct {
		from, to domain.ServiceStatus
	}{
		{domain.StatusUnknown, domain.StatusUp},
		{domain.StatusUp, domain.StatusDegraded},
		{domain.StatusDegraded, domain.StatusDown},
	}
	for _, tr := range transitions {
		e := &domain.StatusEvent{ServiceID: svc.ID, OldStatus: tr.from, NewStatus: tr.to}
		if err := events.Record(ctx, e); err != nil {
			t.Fatalf("Record %s->%s: %v", tr.from, tr.to, err)
		}
		if e.ID == 0 {
			t.Fatal("expected event ID to be set")
		}
		if e.CreatedAt.IsZero() {
			t.Fatal("expected CreatedAt to be set")
		}
	}

	recent, err := events.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 events, got %d", len(recent))
	}
	// Newest first, even when timestamps collide within a second.
	if recent[0].NewStatus != domain.StatusDown {
		t.Fatalf("expected latest transition first, got %q", recent[0].NewStatus)
	}
	if recent[1].NewStatus != domain.StatusDegraded {
		t.Fatalf("expected previous transition second, got %q", recent[1].NewStatus)
	}
	if recent[0].ServiceName != svc.Name {
		t.Fatalf("expected service name %q, got %q", svc.Name, recent[0].ServiceName)
	}
}

func TestStatusEventRepository_ListRecent_Empty(t *testing.T) {
	s := newTestStore(t)
	events := s.StatusEvents()

	recent, err := events.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected no events on a fresh store, got %d", len(recent))
	}
}

func TestStatusEventRepository_Record_UnknownService(t *testing.T) {
	s := newTestStore(t)
	events := s.StatusEvents()

	// The foreign key rejects events for services that do not exist.
	e := &domain.StatusEvent{ServiceID: 99999, OldStatus: domain.StatusUnknown, NewStatus: domain.StatusUp}
	if err := events.Record(context.Background(), e); err == nil {
		t.Fatal("expected foreign key violation for unknown service")
	}
}
