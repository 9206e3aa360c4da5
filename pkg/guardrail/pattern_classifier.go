package guardrail

import (
	"context"
	"strings"

	"github.com/estatewise/sentinel/pkg/domain/security"
)

const (
	// maxInputLength caps how much text is considered safe by size alone;
	// longer payloads are treated as Medium risk.
	maxInputLength = 5000

	// repeatedRunThreshold flags spam like "aaaaaaaaaaa".
	repeatedRunThreshold = 11

	// overconfidenceThreshold flags model output stuffed with certainty words.
	overconfidenceThreshold = 3
)

// PatternClassifier is the default Classifier: deterministic regex screening
// with separate inbound and outbound tables. It is a stand-in for a real
// scoring model behind the same interface.
type PatternClassifier struct{}

func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{}
}

func (c *PatternClassifier) Classify(_ context.Context, text string, direction security.Direction) (security.Assessment, error) {
	assessment := security.Assessment{
		Level:     security.Safe,
		Category:  "none",
		Direction: direction,
	}

	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return assessment, nil
	}
	cleaned = strings.ToLower(cleaned)

	groups := inboundGroups
	if direction == security.Outbound {
		groups = outboundGroups
	}

	for _, group := range groups {
		if group.level <= assessment.Level {
			continue
		}
		for _, pattern := range group.patterns {
			if pattern.MatchString(cleaned) {
				assessment.Level = group.level
				assessment.Category = group.category
				break
			}
		}
	}

	if direction == security.Inbound && assessment.Level < security.Medium && hasRepeatedRun(cleaned) {
		assessment.Level = security.Medium
		assessment.Category = "spam"
	}

	if direction == security.Outbound && assessment.Level < security.Medium {
		if len(confidenceWords.FindAllStringIndex(cleaned, -1)) > overconfidenceThreshold {
			assessment.Level = security.Medium
			assessment.Category = "overconfidence"
		}
	}

	if len(text) > maxInputLength && assessment.Level < security.Medium {
		assessment.Level = security.Medium
		assessment.Category = "length"
	}

	return assessment, nil
}

// hasRepeatedRun reports a run of the same rune long enough to look like
// keyboard spam. RE2 has no backreferences, so this is done by hand.
func hasRepeatedRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= repeatedRunThreshold {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
