package assignment

import (
	"engage/internal/domain/cycle"
	"engage/internal/domain/org"
)

// Compute expands the organization structure into the full set of required
// assignments for a cycle. Pure function: the caller decides which of the
// computed tuples already exist.
func Compute(cycleID, cycleType string, members []org.Member, teams []org.Team, peers PeerPolicy) []Assignment {
	active := map[string]bool{}
	for _, member := range members {
		active[member.UserID] = true
	}
	teamsByID := map[string]org.Team{}
	for _, team := range teams {
		teamsByID[team.ID] = team
	}
	// team ids each user belongs to, for the skip-level walk
	teamsOfUser := map[string][]string{}
	for _, team := range teams {
		for _, memberID := range team.MemberIDs {
			teamsOfUser[memberID] = append(teamsOfUser[memberID], team.ID)
		}
	}

	var out []Assignment
	seen := map[Assignment]bool{}
	// both sides of a tuple must be active; a deactivated manager keeps
	// existing evaluations but stops accruing new upward ones
	add := func(evaluatorID, evaluateeID, relType string) {
		if evaluatorID == "" || !active[evaluatorID] || !active[evaluateeID] {
			return
		}
		candidate := Assignment{CycleID: cycleID, EvaluatorID: evaluatorID, EvaluateeID: evaluateeID, Type: relType}
		if seen[candidate] {
			return
		}
		seen[candidate] = true
		out = append(out, candidate)
	}

	for _, member := range members {
		if cycle.HasComponent(cycleType, cycle.TypeSelf) {
			add(member.UserID, member.UserID, cycle.TypeSelf)
		}

		for _, teamID := range member.TeamIDs {
			team, ok := teamsByID[teamID]
			if !ok {
				continue
			}
			managerID := team.ManagerID
			// a manager never rates themselves as their own manager
			if managerID != "" && managerID != member.UserID {
				if cycle.HasComponent(cycleType, cycle.TypeManager) {
					add(managerID, member.UserID, cycle.TypeManager)
				}
				if cycle.HasComponent(cycleType, cycle.TypeUpward) {
					add(member.UserID, managerID, cycle.TypeUpward)
				}
				if cycle.HasComponent(cycleType, cycle.TypeSkipLevel) {
					for _, skipID := range managersOf(managerID, teamsOfUser, teamsByID) {
						if skipID != managerID && skipID != member.UserID {
							add(skipID, member.UserID, cycle.TypeSkipLevel)
						}
					}
				}
			}
		}

		if cycle.HasComponent(cycleType, cycle.TypePeer) && peers != nil {
			for _, peerID := range peers.PeersFor(member.UserID, teams) {
				if peerID != member.UserID {
					add(peerID, member.UserID, cycle.TypePeer)
				}
			}
		}
	}
	return out
}

func managersOf(userID string, teamsOfUser map[string][]string, teamsByID map[string]org.Team) []string {
	var managers []string
	for _, teamID := range teamsOfUser[userID] {
		team, ok := teamsByID[teamID]
		if !ok || team.ManagerID == "" || team.ManagerID == userID {
			continue
		}
		managers = append(managers, team.ManagerID)
	}
	return managers
}
