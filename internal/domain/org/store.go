package org

import (
	"context"

	"engage/internal/platform/querier"
)

// Store is read-only: the engine consumes organization structure but admin
// CRUD for users and teams lives elsewhere.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListActiveMembers(ctx context.Context, orgID string) ([]Member, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.full_name, u.email, COALESCE(array_agg(tm.team_id::text) FILTER (WHERE tm.team_id IS NOT NULL), '{}')
    FROM users u
    LEFT JOIN team_members tm ON tm.user_id = u.id
    WHERE u.org_id = $1 AND u.status = 'active'
    GROUP BY u.id
    ORDER BY u.full_name
  `, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.UserID, &member.FullName, &member.Email, &member.TeamIDs); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (s *Store) ListTeams(ctx context.Context, orgID string) ([]Team, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.name, COALESCE(t.manager_id::text, ''),
           COALESCE(array_agg(tm.user_id::text) FILTER (WHERE tm.user_id IS NOT NULL), '{}')
    FROM teams t
    LEFT JOIN team_members tm ON tm.team_id = t.id
    WHERE t.org_id = $1
    GROUP BY t.id
    ORDER BY t.name
  `, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var team Team
		if err := rows.Scan(&team.ID, &team.Name, &team.ManagerID, &team.MemberIDs); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// ExplicitPeers returns the stored peer selections for a cycle, keyed by
// evaluatee. Empty when the organization relies on same-team peers.
func (s *Store) ExplicitPeers(ctx context.Context, cycleID string) (map[string][]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT evaluatee_id, peer_id
    FROM peer_selections
    WHERE cycle_id = $1
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	peers := map[string][]string{}
	for rows.Next() {
		var evaluateeID, peerID string
		if err := rows.Scan(&evaluateeID, &peerID); err != nil {
			return nil, err
		}
		peers[evaluateeID] = append(peers[evaluateeID], peerID)
	}
	return peers, nil
}

// IsManagerOf reports whether managerID manages any team evaluateeID
// belongs to.
func (s *Store) IsManagerOf(ctx context.Context, orgID, evaluateeID, managerID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM teams t
    JOIN team_members tm ON tm.team_id = t.id
    WHERE t.org_id = $1 AND tm.user_id = $2 AND t.manager_id = $3
  `, orgID, evaluateeID, managerID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UserEmail(ctx context.Context, orgID, userID string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, `
    SELECT email FROM users WHERE org_id = $1 AND id = $2
  `, orgID, userID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}
