package auth

const (
	PermCyclesRead   = "evaluations.cycles.read"
	PermCyclesWrite  = "evaluations.cycles.write"
	PermGenerate     = "evaluations.assignments.generate"
	PermEvalRead     = "evaluations.read"
	PermEvalWrite    = "evaluations.write"
	PermEvalReview   = "evaluations.review"
	PermResultsRead  = "evaluations.results.read"
	PermCatalogRead  = "competencies.read"
	PermCatalogWrite = "competencies.write"
	PermExports      = "evaluations.exports"
	PermAuditRead    = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermCyclesRead,
		PermEvalRead,
		PermEvalWrite,
		PermResultsRead,
		PermCatalogRead,
	},
	RoleManager: {
		PermCyclesRead,
		PermEvalRead,
		PermEvalWrite,
		PermEvalReview,
		PermResultsRead,
		PermCatalogRead,
	},
	RoleAdmin: {
		PermCyclesRead,
		PermCyclesWrite,
		PermGenerate,
		PermEvalRead,
		PermEvalWrite,
		PermEvalReview,
		PermResultsRead,
		PermCatalogRead,
		PermCatalogWrite,
		PermExports,
		PermAuditRead,
	},
}

func HasPermission(role, permission string) bool {
	for _, candidate := range RolePermissions[role] {
		if candidate == permission {
			return true
		}
	}
	return false
}
