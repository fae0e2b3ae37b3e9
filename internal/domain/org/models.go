package org

// Member is an active user plus the teams they belong to.
type Member struct {
	UserID   string
	FullName string
	Email    string
	TeamIDs  []string
}

type Team struct {
	ID        string
	Name      string
	ManagerID string
	MemberIDs []string
}
