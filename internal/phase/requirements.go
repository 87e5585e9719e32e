package phase

import "strings"

// Deliverable is a file or directory a phase must produce before it is complete.
type Deliverable string

// IsDir reports whether the deliverable names a directory (trailing slash).
func (d Deliverable) IsDir() bool {
	return strings.HasSuffix(string(d), "/")
}

var deliverables = map[int][]Deliverable{
	1: {"1-Planning/project-charter.md", "1-Planning/initial-timeline.md", "1-Planning/stakeholder-map.md"},
	2: {"2-Requirements/requirements-specification.md", "2-Requirements/user-stories.md", "2-Requirements/acceptance-criteria.md"},
	3: {
		"3-Design/system-architecture.md", "3-Design/database-schema.md", "3-Design/api-specifications.md",
		"3-Design/ui-flows.md", "3-Design/wireframes.md", "3-Design/data-interfaces.md",
	},
	4: {"4-Development/components/", "4-Development/component-breakdown.md"},
	5: {"5-Testing/component-tests/", "5-Testing/test-status.md"},
	6: {"6-Deployment/deployed-components/", "6-Deployment/deployment-status.md"},
	7: {"7-Maintenance/performance-reports.md", "7-Maintenance/user-feedback.md", "7-Maintenance/maintenance-log.md"},
}

// Deliverables lists what p must produce, relative to the project root.
func (p Phase) Deliverables() []Deliverable {
	src := deliverables[p.Number()]
	out := make([]Deliverable, len(src))
	copy(out, src)
	return out
}

// Component directories tracked across the iterative phases.
const (
	DevComponentsDir      = "4-Development/components"
	TestComponentsDir     = "5-Testing/component-tests"
	DeployedComponentsDir = "6-Deployment/deployed-components"
)

// Subfolders created under phase folders at project start.
var Subfolders = []string{
	"3-Design/architecture-diagrams",
	"3-Design/ui-flows",
	"3-Design/wireframes",
	"3-Design/data-interfaces",
	"4-Development/src",
	"4-Development/tests",
	"4-Development/docs",
	"6-Deployment/deployment-config",
}
