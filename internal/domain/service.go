package domain

import (
	"context"
	"time"
)

type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
)

type ServiceStatus string

const (
	StatusUp       ServiceStatus = "up"
	StatusDegraded ServiceStatus = "degraded"
	StatusDown     ServiceStatus = "down"
	StatusUnknown  ServiceStatus = "unknown"
)

// Service is one inventoried network service: a named endpoint that
// belongs to a group. The (host, port, protocol) triple is unique across
// the inventory.
type Service struct {
	ID            int64
	GroupID       int64
	Name          string
	Host          string
	Port          int
	Protocol      Protocol
	Status        ServiceStatus
	Owner         string
	Notes         string
	LastCheckedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ServiceFilter narrows List results. Zero values mean "no constraint".
type ServiceFilter struct {
	Query    string // case-insensitive substring over name, host, owner, notes
	GroupID  int64
	Protocol Protocol
	Status   ServiceStatus
}

// ServiceRepository defines persistence operations for services.
type ServiceRepository interface {
	List(ctx context.Context) ([]Service, error)
	ListByGroup(ctx context.Context, groupID int64) ([]Service, error)
	GetByID(ctx context.Context, id int64) (*Service, error)
	Create(ctx context.Context, service *Service) error
	Update(ctx context.Context, service *Service) error
	UpdateStatus(ctx context.Context, id int64, status ServiceStatus, checkedAt time.Time) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[ServiceStatus]int, error)
	CountByGroup(ctx context.Context) (map[int64]int, error)
}
