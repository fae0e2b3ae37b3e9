package catalog

// DefaultSet is the rubric installed by the init endpoint for organizations
// that have not customized their catalog yet.
func DefaultSet() []CompetencyDetails {
	return []CompetencyDetails{
		{
			Name:        "Technical Expertise",
			Description: "Depth and currency of role-specific technical skills.",
			Category:    CategoryTechnical,
			Behaviors: []string{
				"Produces work that rarely needs rework",
				"Picks the right tool for the problem",
				"Shares technical knowledge with the team",
			},
			Order: 1,
		},
		{
			Name:        "Communication",
			Description: "Clarity and effectiveness in written and spoken communication.",
			Category:    CategoryCommunication,
			Behaviors: []string{
				"Explains complex topics to non-experts",
				"Keeps stakeholders informed without prompting",
				"Listens and incorporates feedback",
			},
			Order: 2,
		},
		{
			Name:        "Collaboration",
			Description: "Works effectively across roles and teams.",
			Category:    CategoryCollaboration,
			Behaviors: []string{
				"Unblocks teammates proactively",
				"Handles disagreement constructively",
				"Gives credit where it is due",
			},
			Order: 3,
		},
		{
			Name:        "Ownership & Delivery",
			Description: "Takes responsibility for outcomes and delivers predictably.",
			Category:    CategoryDelivery,
			Behaviors: []string{
				"Meets commitments or renegotiates early",
				"Raises risks before they become incidents",
				"Follows work through to production",
			},
			Order: 4,
		},
		{
			Name:        "Leadership",
			Description: "Influence, mentoring, and direction-setting regardless of title.",
			Category:    CategoryLeadership,
			Behaviors: []string{
				"Mentors less experienced colleagues",
				"Builds alignment before driving decisions",
				"Models the behavior expected of others",
			},
			Order: 5,
		},
		{
			Name:        "Growth Mindset",
			Description: "Seeks feedback and improves continuously.",
			Category:    CategoryGrowth,
			Behaviors: []string{
				"Acts on feedback from previous cycles",
				"Learns new skills ahead of need",
				"Treats mistakes as learning material",
			},
			Order: 6,
		},
	}
}
