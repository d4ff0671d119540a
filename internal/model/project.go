package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidProjectStatus = errors.New("model: invalid project status")

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectActive, ProjectArchived:
		return true
	default:
		return false
	}
}

type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Color       string        `json:"color"`
	Status      ProjectStatus `json:"status"`
	Order       *int          `json:"order,omitempty"`
	IsFocused   bool          `json:"isFocused,omitempty"`
	AreaID      string        `json:"areaId,omitempty"`
	TagIDs      []string      `json:"tagIds,omitempty"`
	Attachments []Attachment  `json:"attachments,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
	DeletedAt   string        `json:"deletedAt,omitempty"`
	PurgedAt    string        `json:"purgedAt,omitempty"`
	Rev         int           `json:"rev,omitempty"`
	RevBy       string        `json:"revBy,omitempty"`
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("model: project id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: project %s", ErrEmptyTitle, p.ID)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidProjectStatus, p.Status)
	}
	return nil
}

func (p Project) IsDeleted() bool {
	return p.DeletedAt != ""
}

func (p Project) Clone() Project {
	out := p
	if p.Order != nil {
		v := *p.Order
		out.Order = &v
	}
	if p.TagIDs != nil {
		out.TagIDs = append([]string(nil), p.TagIDs...)
	}
	if p.Attachments != nil {
		out.Attachments = append([]Attachment(nil), p.Attachments...)
	}
	return out
}

type Section struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Order       int    `json:"order"`
	IsCollapsed bool   `json:"isCollapsed,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	DeletedAt   string `json:"deletedAt,omitempty"`
	PurgedAt    string `json:"purgedAt,omitempty"`
	Rev         int    `json:"rev,omitempty"`
	RevBy       string `json:"revBy,omitempty"`
}

func (s Section) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: section id is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: section %s", ErrEmptyTitle, s.ID)
	}
	if strings.TrimSpace(s.ProjectID) == "" {
		return errors.New("model: section project id is required")
	}
	return nil
}

func (s Section) IsDeleted() bool {
	return s.DeletedAt != ""
}

// Area is hard-removed rather than tombstoned; it carries no deletedAt.
type Area struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Order     int    `json:"order"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Rev       int    `json:"rev,omitempty"`
	RevBy     string `json:"revBy,omitempty"`
}

func (a Area) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: area id is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: area %s", ErrEmptyTitle, a.ID)
	}
	return nil
}

type Settings struct {
	DeviceID string `json:"deviceId,omitempty"`
	Theme    string `json:"theme,omitempty"`
	Language string `json:"language,omitempty"`
}
