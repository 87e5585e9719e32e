// Package phase defines the fixed seven-phase AI-SDLC lifecycle.
//
// Phases are identified by a zero-based index internally and by a one-based
// number everywhere a human sees them (status file, CLI flags, folder names).
package phase

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownPhase is returned when a phase number is outside 1..7.
var ErrUnknownPhase = errors.New("unknown phase")

// Phase is one step of the lifecycle.
type Phase struct {
	Index     int      `json:"index"`
	Key       string   `json:"key"`
	Folder    string   `json:"folder"`
	RulesFile string   `json:"rules_file"`
	Actions   []string `json:"actions"`
	Iterative bool     `json:"iterative"`
}

var all = []Phase{
	{
		Index:     0,
		Key:       "planning",
		Folder:    "1-Planning",
		RulesFile: "phase1-planning-rules.md",
		Actions:   []string{"Create project charter", "Define timeline", "Map stakeholders"},
	},
	{
		Index:     1,
		Key:       "requirements",
		Folder:    "2-Requirements",
		RulesFile: "phase2-requirements-rules.md",
		Actions:   []string{"Generate user stories", "Create acceptance criteria", "Define security requirements"},
	},
	{
		Index:     2,
		Key:       "design",
		Folder:    "3-Design",
		RulesFile: "phase3-design-rules.md",
		Actions:   []string{"Create architecture", "Design API specs", "Plan database schema"},
	},
	{
		Index:     3,
		Key:       "development",
		Folder:    "4-Development",
		RulesFile: "phase4-development-rules.md",
		Actions:   []string{"Generate code", "Implement features", "Create unit tests"},
		Iterative: true,
	},
	{
		Index:     4,
		Key:       "testing",
		Folder:    "5-Testing",
		RulesFile: "phase5-testing-rules.md",
		Actions:   []string{"Create test plan", "Generate test cases", "Run automated tests"},
		Iterative: true,
	},
	{
		Index:     5,
		Key:       "deployment",
		Folder:    "6-Deployment",
		RulesFile: "phase6-deployment-rules.md",
		Actions:   []string{"Configure CI/CD", "Deploy application", "Setup monitoring"},
		Iterative: true,
	},
	{
		Index:     6,
		Key:       "maintenance",
		Folder:    "7-Maintenance",
		RulesFile: "phase7-maintenance-rules.md",
		Actions:   []string{"Monitor performance", "Analyze feedback", "Plan enhancements"},
	},
}

// Count is the number of lifecycle phases.
const Count = 7

var titler = cases.Title(language.English)

// All returns a copy of the phase list in lifecycle order.
func All() []Phase {
	out := make([]Phase, len(all))
	copy(out, all)
	return out
}

// First returns the planning phase.
func First() Phase {
	return all[0]
}

// ByNumber returns the phase with the one-based number shown to users.
func ByNumber(n int) (Phase, error) {
	if n < 1 || n > Count {
		return Phase{}, fmt.Errorf("%w: %d (must be 1-%d)", ErrUnknownPhase, n, Count)
	}
	return all[n-1], nil
}

// Number is the one-based phase number.
func (p Phase) Number() int {
	return p.Index + 1
}

// Name is the display name, e.g. "Planning".
func (p Phase) Name() string {
	return titler.String(p.Key)
}

// Label is the status-file form, e.g. "1. Planning".
func (p Phase) Label() string {
	return fmt.Sprintf("%d. %s", p.Number(), p.Name())
}

// Progress renders completion for reaching this phase, e.g. "42% complete".
func (p Phase) Progress() string {
	return fmt.Sprintf("%d%% complete", p.Index*100/Count)
}

// IsLast reports whether p is the final phase.
func (p Phase) IsLast() bool {
	return p.Index == Count-1
}

// Next returns the following phase. The last phase returns itself.
func (p Phase) Next() Phase {
	if p.IsLast() {
		return p
	}
	return all[p.Index+1]
}
