package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jslaski/patchbay/internal/domain"
	"github.com/jslaski/patchbay/internal/repository/sqlite"
)

func seededGroup(t *testing.T, s *sqlite.Store, name string) *domain.Group {
	t.Helper()
	g, err := s.Groups().GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("GetByName %s: %v", name, err)
	}
	return g
}

func TestServiceRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()
	group := seededGroup(t, s, "compute")

	svc := &domain.Service{
		GroupID:  group.ID,
		Name:     "vault",
		Host:     "10.0.3.20",
		Port:     8200,
		Protocol: domain.ProtocolTCP,
		Status:   domain.StatusUnknown,
		Owner:    "platform",
		Notes:    "secrets backend",
	}
	if err := repo.Create(ctx, svc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if svc.ID == 0 {
		t.Fatal("expected service ID to be set")
	}
	if svc.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	found, err := repo.GetByID(ctx, svc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Name != "vault" || found.Host != "10.0.3.20" || found.Port != 8200 {
		t.Fatalf("unexpected service round trip: %+v", found)
	}
	if found.Protocol != domain.ProtocolTCP {
		t.Fatalf("expected protocol tcp, got %q", found.Protocol)
	}
	if found.Status != domain.StatusUnknown {
		t.Fatalf("expected status unknown, got %q", found.Status)
	}
	if found.LastCheckedAt != nil {
		t.Fatal("expected LastCheckedAt to be unset on a new service")
	}
}

func TestServiceRepository_Create_DuplicateEndpoint(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()
	group := seededGroup(t, s, "compute")

	s1 := &domain.Service{GroupID: group.ID, Name: "api-a", Host: "10.0.3.30", Port: 8080,
		Protocol: domain.ProtocolTCP, Status: domain.StatusUnknown}
	if err := repo.Create(ctx, s1); err != nil {
		t.Fatalf("Create s1: %v", err)
	}

	// Same endpoint triple under a different name collides.
	s2 := &domain.Service{GroupID: group.ID, Name: "api-b", Host: "10.0.3.30", Port: 8080,
		Protocol: domain.ProtocolTCP, Status: domain.StatusUnknown}
	err := repo.Create(ctx, s2)
	if !errors.Is(err, domain.ErrDuplicateEndpoint) {
		t.Fatalf("expected ErrDuplicateEndpoint, got %v", err)
	}

	// A different protocol on the same host and port is a new endpoint.
	s3 := &domain.Service{GroupID: group.ID, Name: "api-udp", Host: "10.0.3.30", Port: 8080,
		Protocol: domain.ProtocolUDP, Status: domain.StatusUnknown}
	if err := repo.Create(ctx, s3); err != nil {
		t.Fatalf("Create s3: %v", err)
	}
}

func TestServiceRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 99999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()

	services, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(services) != 8 {
		t.Fatalf("expected 8 seeded services, got %d", len(services))
	}
	for i := 1; i < len(services); i++ {
		if services[i-1].Name > services[i].Name {
			t.Fatalf("expected services sorted by name, got %q before %q",
				services[i-1].Name, services[i].Name)
		}
	}
}

func TestServiceRepository_ListByGroup(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()
	group := seededGroup(t, s, "core-network")

	services, err := repo.ListByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(services) != 3 {
		t.Fatalf("expected 3 core-network services, got %d", len(services))
	}
	for _, svc := range services {
		if svc.GroupID != group.ID {
			t.Fatalf("expected group %d, got %d", group.ID, svc.GroupID)
		}
	}
}

func TestServiceRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()
	group := seededGroup(t, s, "compute")

	svc := &domain.Service{GroupID: group.ID, Name: "api", Host: "10.0.3.40", Port: 8080,
		Protocol: domain.ProtocolTCP, Status: domain.StatusUnknown}
	if err := repo.Create(ctx, svc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	svc.Host = "10.0.3.41"
	svc.Port = 9090
	svc.Notes = "moved to new host"
	if err := repo.Update(ctx, svc); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := repo.GetByID(ctx, svc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Host != "10.0.3.41" || found.Port != 9090 {
		t.Fatalf("expected updated endpoint, got %s:%d", found.Host, found.Port)
	}
	if found.Notes != "moved to new host" {
		t.Fatalf("expected updated notes, got %q", found.Notes)
	}
}

func TestServiceRepository_Update_DuplicateEndpoint(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()
	group := seededGroup(t, s, "compute")

	svc := &domain.Service{GroupID: group.ID, Name: "api", Host: "10.0.3.50", Port: 8080,
		Protocol: domain.ProtocolTCP, Status: domain.StatusUnknown}
	if err := repo.Create(ctx, svc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Moving onto the seeded dns-primary endpoint collides.
	svc.Host = "10.0.0.2"
	svc.Port = 53
	svc.Protocol = domain.ProtocolUDP
	err := repo.Update(ctx, svc)
	if !errors.Is(err, domain.ErrDuplicateEndpoint) {
		t.Fatalf("expected ErrDuplicateEndpoint, got %v", err)
	}
}

func TestServiceRepository_Update_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()

	svc := &domain.Service{ID: 99999, GroupID: 1, Name: "ghost", Host: "10.9.9.9", Port: 1,
		Protocol: domain.ProtocolTCP, Status: domain.StatusUnknown}
	err := repo.Update(ctx, svc)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRepository_UpdateStatus(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()

	services, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	svc := services[0]

	checkedAt := time.Now().UTC()
	if err := repo.UpdateStatus(ctx, svc.ID, domain.StatusDegraded, checkedAt); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	found, err := repo.GetByID(ctx, svc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Status != domain.StatusDegraded {
		t.Fatalf("expected status degraded, got %q", found.Status)
	}
	if found.LastCheckedAt == nil {
		t.Fatal("expected LastCheckedAt to be set")
	}
	if found.LastCheckedAt.Unix() != checkedAt.Unix() {
		t.Fatalf("expected check time %v, got %v", checkedAt, found.LastCheckedAt)
	}
}

func TestServiceRepository_UpdateStatus_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()

	err := repo.UpdateStatus(ctx, 99999, domain.StatusUp, time.Now())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()
	group := seededGroup(t, s, "compute")

	svc := &domain.Service{GroupID: group.ID, Name: "ephemeral", Host: "10.0.3.60", Port: 8080,
		Protocol: domain.ProtocolTCP, Status: domain.StatusUnknown}
	if err := repo.Create(ctx, svc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, svc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, svc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestServiceRepository_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()

	err := repo.Delete(ctx, 99999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRepository_CountByStatus(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()

	// Seeded services all start unknown.
	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[domain.StatusUnknown] != 8 {
		t.Fatalf("expected 8 unknown services, got %d", counts[domain.StatusUnknown])
	}

	services, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := repo.UpdateStatus(ctx, services[0].ID, domain.StatusUp, time.Now()); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	counts, err = repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus after update: %v", err)
	}
	if counts[domain.StatusUnknown] != 7 || counts[domain.StatusUp] != 1 {
		t.Fatalf("expected 7 unknown and 1 up, got %v", counts)
	}
}

func TestServiceRepository_CountByGroup(t *testing.T) {
	s := newTestStore(t)
	repo := s.Services()
	ctx := context.Background()
	group := seededGroup(t, s, "core-network")

	counts, err := repo.CountByGroup(ctx)
	if err != nil {
		t.Fatalf("CountByGroup: %v", err)
	}
	if counts[group.ID] != 3 {
		t.Fatalf("expected 3 services in core-network, got %d", counts[group.ID])
	}
}
