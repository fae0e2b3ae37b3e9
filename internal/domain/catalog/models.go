package catalog

import "time"

type Competency struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"organizationId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Behaviors   []string  `json:"behaviors"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CompetencyDetails struct {
	Name        string
	Description string
	Category    string
	Behaviors   []string
	Order       int
}
