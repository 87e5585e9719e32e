package status

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/roach88/umbrella/internal/phase"
)

// ErrNoStatus is returned when a project has no status file.
var ErrNoStatus = errors.New("no " + FileName + " found")

const phaseMarker = "**Phase:**"

// UnknownPhaseLabel is reported when the status file has no phase line.
const UnknownPhaseLabel = "Unknown Phase"

// Read returns the raw status file content.
func Read(root string) (string, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoStatus
		}
		return "", fmt.Errorf("read status: %w", err)
	}
	return string(data), nil
}

func phaseLine(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, phaseMarker) {
			return line, true
		}
	}
	return "", false
}

// ParsePhase extracts the current phase from status content.
// The first "<n>." found on the phase line, for n in 1..7, wins.
func ParsePhase(content string) (phase.Phase, bool) {
	line, ok := phaseLine(content)
	if !ok {
		return phase.Phase{}, false
	}
	for n := 1; n <= phase.Count; n++ {
		if strings.Contains(line, fmt.Sprintf("%d.", n)) {
			p, err := phase.ByNumber(n)
			if err != nil {
				return phase.Phase{}, false
			}
			return p, true
		}
	}
	return phase.Phase{}, false
}

// ParsePhaseLabel returns the text after the phase marker, e.g. "3. Design".
func ParsePhaseLabel(content string) string {
	line, ok := phaseLine(content)
	if !ok {
		return UnknownPhaseLabel
	}
	_, after, _ := strings.Cut(line, phaseMarker)
	label := strings.TrimSpace(after)
	if label == "" {
		return UnknownPhaseLabel
	}
	return label
}
