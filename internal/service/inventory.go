package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jslaski/patchbay/internal/domain"
)

// InventoryService handles the service catalog: groups, services, status
// transitions, and dashboard aggregation.
type InventoryService struct {
	groups   domain.GroupRepository
	services domain.ServiceRepository
	events   domain.StatusEventRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(groups domain.GroupRepository, services domain.ServiceRepository, events domain.StatusEventRepository) *InventoryService {
	return &InventoryService{groups: groups, services: services, events: events}
}

// ListGroups returns all groups ordered by name.
func (s *InventoryService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	return s.groups.List(ctx)
}

// GetGroup returns a group by ID.
func (s *InventoryService) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	return s.groups.GetByID(ctx, id)
}

// CreateGroup creates a new group with validation.
func (s *InventoryService) CreateGroup(ctx context.Context, name, description string) (*domain.Group, error) {
	if err := validateGroupFields(name, description); err != nil {
		return nil, err
	}

	group := &domain.Group{Name: name, Description: description}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// UpdateGroup renames or redescribes an existing group.
func (s *InventoryService) UpdateGroup(ctx context.Context, id int64, name, description string) (*domain.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateGroupFields(name, description); err != nil {
		return nil, err
	}

	group.Name = name
	group.Description = description
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return group, nil
}

// DeleteGroup removes a group. Its services go with it.
func (s *InventoryService) DeleteGroup(ctx context.Context, id int64) error {
	return s.groups.Delete(ctx, id)
}

func validateGroupFields(name, description string) error {
	if name == "" {
		return fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	if len(name) > 50 {
		return fmt.Errorf("%w: group name must be 50 characters or fewer", domain.ErrInvalidInput)
	}
	if len(description) > 500 {
		return fmt.Errorf("%w: description must be 500 characters or fewer", domain.ErrInvalidInput)
	}
	return nil
}

// SearchServices returns services matching the filter, ordered by name.
func (s *InventoryService) SearchServices(ctx context.Context, filter domain.ServiceFilter) ([]domain.Service, error) {
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return filterServices(services, filter), nil
}

func filterServices(services []domain.Service, f domain.ServiceFilter) []domain.Service {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	var out []domain.Service
	for _, svc := range services {
		if f.GroupID != 0 && svc.GroupID != f.GroupID {
			continue
		}
		if f.Protocol != "" && svc.Protocol != f.Protocol {
			continue
		}
		if f.Status != "" && svc.Status != f.Status {
			continue
		}
		if query != "" && !matchesQuery(&svc, query) {
			continue
		}
		out = append(out, svc)
	}
	return out
}

func matchesQuery(svc *domain.Service, query string) bool {
	for _, field := range []string{svc.Name, svc.Host, svc.Owner, svc.Notes} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// ListServicesByGroup returns a group's services ordered by name.
func (s *InventoryService) ListServicesByGroup(ctx context.Context, groupID int64) ([]domain.Service, error) {
	return s.services.ListByGroup(ctx, groupID)
}

// GetService returns a service by ID.
func (s *InventoryService) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return s.services.GetByID(ctx, id)
}

// CreateService registers a new service with validation. Empty protocol
// defaults to tcp and empty status to unknown.
func (s *InventoryService) CreateService(ctx context.Context, svc *domain.Service) error {
	if svc.Protocol == "" {
		svc.Protocol = domain.ProtocolTCP
	}
	if svc.Status == "" {
		svc.Status = domain.StatusUnknown
	}
	if err := s.validateService(ctx, svc); err != nil {
		return err
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// UpdateService updates a service's registration fields. Status changes
// go through SetServiceStatus so they leave an event trail.
func (s *InventoryService) UpdateService(ctx context.Context, svc *domain.Service) error {
	if svc.Protocol == "" {
		svc.Protocol = domain.ProtocolTCP
	}
	if err := s.validateService(ctx, svc); err != nil {
		return err
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// DeleteService removes a service from the inventory.
func (s *InventoryService) DeleteService(ctx context.Context, id int64) error {
	return s.services.Delete(ctx, id)
}

var validStatuses = map[domain.ServiceStatus]bool{
	domain.StatusUp:       true,
	domain.StatusDegraded: true,
	domain.StatusDown:     true,
	domain.StatusUnknown:  true,
}

func (s *InventoryService) validateService(ctx context.Context, svc *domain.Service) error {
	if svc.Name == "" {
		return fmt.Errorf("%w: service name is required", domain.ErrInvalidInput)
	}
	if len(svc.Name) > 100 {
		return fmt.Errorf("%w: service name must be 100 characters or fewer", domain.ErrInvalidInput)
	}
	if svc.Host == "" {
		return fmt.Errorf("%w: host is required", domain.ErrInvalidInput)
	}
	if len(svc.Host) > 255 {
		return fmt.Errorf("%w: host must be 255 characters or fewer", domain.ErrInvalidInput)
	}
	if svc.Port < 1 || svc.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535", domain.ErrInvalidInput)
	}
	if svc.Protocol != domain.ProtocolTCP && svc.Protocol != domain.ProtocolUDP {
		return fmt.Errorf("%w: protocol must be 'tcp' or 'udp'", domain.ErrInvalidInput)
	}
	if svc.Status != "" && !validStatuses[svc.Status] {
		return fmt.Errorf("%w: status must be up, degraded, down, or unknown", domain.ErrInvalidInput)
	}
	if len(svc.Owner) > 100 {
		return fmt.Errorf("%w: owner must be 100 characters or fewer", domain.ErrInvalidInput)
	}
	if len(svc.Notes) > 1000 {
		return fmt.Errorf("%w: notes must be 1000 characters or fewer", domain.ErrInvalidInput)
	}

	// Verify the group exists.
	if _, err := s.groups.GetByID(ctx, svc.GroupID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: group %d does not exist", domain.ErrInvalidInput, svc.GroupID)
		}
		return fmt.Errorf("check group: %w", err)
	}
	return nil
}

// SetServiceStatus transitions a service to the given status and records
// the transition. Setting the current status again is a no-op and leaves
// no event.
func (s *InventoryService) SetServiceStatus(ctx context.Context, id int64, status domain.ServiceStatus) (*domain.Service, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("%w: status must be up, degraded, down, or unknown", domain.ErrInvalidInput)
	}

	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.Status == status {
		return svc, nil
	}

	checkedAt := time.Now().UTC()
	if err := s.services.UpdateStatus(ctx, id, status, checkedAt); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	event := &domain.StatusEvent{ServiceID: id, OldStatus: svc.Status, NewStatus: status}
	if err := s.events.Record(ctx, event); err != nil {
		return nil, fmt.Errorf("record status event: %w", err)
	}

	svc.Status = status
	svc.LastCheckedAt = &checkedAt
	return svc, nil
}

// RecentEvents returns the latest status transitions, newest first.
func (s *InventoryService) RecentEvents(ctx context.Context, limit int) ([]domain.StatusEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.events.ListRecent(ctx, limit)
}

// InventorySummary aggregates the counts the dashboard shows.
type InventorySummary struct {
	Groups        []domain.Group
	TotalGroups   int
	TotalServices int
	ByStatus      map[domain.ServiceStatus]int
	ByGroup       map[int64]int
	RecentEvents  []domain.StatusEvent
}

// Summary computes the dashboard aggregates in one call.
func (s *InventoryService) Summary(ctx context.Context) (*InventorySummary, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	byStatus, err := s.services.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byGroup, err := s.services.CountByGroup(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by group: %w", err)
	}
	recent, err := s.events.ListRecent(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	return &InventorySummary{
		Groups:        groups,
		TotalGroups:   len(groups),
		TotalServices: total,
		ByStatus:      byStatus,
		ByGroup:       byGroup,
		RecentEvents:  recent,
	}, nil
}
