package model

import "time"

type Profile struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Role         string           `json:"role"`
	Email        string           `json:"email"`
	Skills       []string         `json:"skills"`
	Bio          string           `json:"bio"`
	Location     string           `json:"location"`
	ProfileImage string           `json:"profileImage"`
	Stats        ProfileStats     `json:"stats"`
	Credits      []Credit         `json:"credits"`
	Projects     []ProjectSummary `json:"projects"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type ProfileStats struct {
	Projects       int `json:"projects"`
	Collaborations int `json:"collaborations"`
	Credits        int `json:"credits"`
}

type Credit struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Role   string `json:"role"`
	Year   string `json:"year"`
}

// ProjectSummary is the denormalized copy of a project kept on its owner's profile.
type ProjectSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Genre         string `json:"genre"`
	Collaborators int    `json:"collaborators"`
}

// Valid reports whether the record can be shown in discovery results.
func (p *Profile) Valid() bool {
	return p != nil && p.Name != ""
}

// Summary builds the profile-side summary of a project.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Genre:         p.Genre,
		Collaborators: len(p.Collaborators),
	}
}
