package handler

import (
	"time"

	"github.com/jslaski/patchbay/internal/domain"
)

// ServiceDTO is the JSON representation of an inventoried service.
type ServiceDTO struct {
	ID            int64   `json:"id"`
	Group         string  `json:"group"`
	GroupID       int64   `json:"groupId"`
	Name          string  `json:"name"`
	Host          string  `json:"host"`
	Port          int     `json:"port"`
	Protocol      string  `json:"protocol"`
	Status        string  `json:"status"`
	Owner         string  `json:"owner"`
	Notes         string  `json:"notes"`
	LastCheckedAt *string `json:"lastCheckedAt"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func toServiceDTO(s *domain.Service, groupNames map[int64]string) ServiceDTO {
	dto := ServiceDTO{
		ID:        s.ID,
		Group:     groupNames[s.GroupID],
		GroupID:   s.GroupID,
		Name:      s.Name,
		Host:      s.Host,
		Port:      s.Port,
		Protocol:  string(s.Protocol),
		Status:    string(s.Status),
		Owner:     s.Owner,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
	if s.LastCheckedAt != nil {
		t := s.LastCheckedAt.Format(time.RFC3339)
		dto.LastCheckedAt = &t
	}
	return dto
}

func toServiceDTOs(services []domain.Service, groupNames map[int64]string) []ServiceDTO {
	dtos := make([]ServiceDTO, len(services))
	for i := range services {
		dtos[i] = toServiceDTO(&services[i], groupNames)
	}
	return dtos
}

// MigrationDTO is the JSON representation of an applied migration ledger row.
type MigrationDTO struct {
	Version   int64  `json:"version"`
	Name      string `json:"name"`
	AppliedAt string `json:"appliedAt"`
}

func toMigrationDTO(m domain.Migration) MigrationDTO {
	return MigrationDTO{
		Version:   m.Version,
		Name:      m.Name,
		AppliedAt: m.AppliedAt.Format(time.RFC3339),
	}
}

func toMigrationDTOs(migrations []domain.Migration) []MigrationDTO {
	dtos := make([]MigrationDTO, len(migrations))
	for i, m := range migrations {
		dtos[i] = toMigrationDTO(m)
	}
	return dtos
}
