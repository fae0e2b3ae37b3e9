package assignment

import "engage/internal/domain/org"

// PeerPolicy decides who peer-reviews an evaluatee. Organizations differ
// here, so the rule is injected rather than hardcoded.
type PeerPolicy interface {
	PeersFor(evaluateeID string, teams []org.Team) []string
}

// SameTeamPolicy selects every teammate except the evaluatee and the team
// manager. This is the default.
type SameTeamPolicy struct{}

func (SameTeamPolicy) PeersFor(evaluateeID string, teams []org.Team) []string {
	var peers []string
	seen := map[string]bool{}
	for _, team := range teams {
		if !contains(team.MemberIDs, evaluateeID) {
			continue
		}
		for _, memberID := range team.MemberIDs {
			if memberID == evaluateeID || memberID == team.ManagerID || seen[memberID] {
				continue
			}
			seen[memberID] = true
			peers = append(peers, memberID)
		}
	}
	return peers
}

// ExplicitListPolicy uses peer selections stored per evaluatee; users with
// no entry get no peer reviews.
type ExplicitListPolicy struct {
	Peers map[string][]string
}

func (p ExplicitListPolicy) PeersFor(evaluateeID string, _ []org.Team) []string {
	return p.Peers[evaluateeID]
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
