package model

import (
	"slices"
	"time"
)

const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusRecording = "recording"
	ProjectStatusMixing    = "mixing"
	ProjectStatusCompleted = "completed"
)

var projectStatuses = []string{
	ProjectStatusPlanning,
	ProjectStatusRecording,
	ProjectStatusMixing,
	ProjectStatusCompleted,
}

// ValidProjectStatus reports whether s is one of the known project states.
// Any state may follow any other; completed projects can be reopened.
func ValidProjectStatus(s string) bool {
	return slices.Contains(projectStatuses, s)
}

type Project struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Genre         string           `json:"genre"`
	Deadline      string           `json:"deadline"`
	OwnerID       string           `json:"ownerId"`
	Status        string           `json:"status"`
	Progress      int              `json:"progress"`
	Collaborators []Collaborator   `json:"collaborators"`
	Files         []FileAttachment `json:"files"`
	Messages      []any            `json:"messages"` // reserved
	CreatedAt     time.Time        `json:"createdAt"`
}

// Collaborator is stored denormalized; it is not kept in sync with the profile.
type Collaborator struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

func (p *Project) IsOwner(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

func (p *Project) IsCollaborator(userID string) bool {
	if userID == "" {
		return false
	}
	return slices.ContainsFunc(p.Collaborators, func(c Collaborator) bool {
		return c.ID == userID
	})
}

// HasParticipant reports whether userID owns or collaborates on the project.
func (p *Project) HasParticipant(userID string) bool {
	return p.IsOwner(userID) || p.IsCollaborator(userID)
}
