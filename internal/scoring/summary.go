package scoring

import (
	"fmt"
	"math"
	"strings"

	"interview-practice-service/internal/domain"
)

// Summarize builds the frozen narrative for a finished session. It is a pure
// function of the outcomes; no external call is made. Sessions follow the
// fixed 2 easy / 2 medium / 2 hard ordering, so per-difficulty averages are
// derived from position.
func Summarize(candidate domain.CandidateProfile, outcomes []domain.Outcome) string {
	if len(outcomes) == 0 {
		return fmt.Sprintf("%s did not complete any questions.", candidate.Name)
	}

	overall := roundedMean(outcomes)
	timeouts := 0
	for _, o := range outcomes {
		if o.TimedOut {
			timeouts++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s scored %d/100 overall: %s.", candidate.Name, overall, band(overall)))

	if len(outcomes) == 6 {
		sb.WriteString(fmt.Sprintf(" Easy %d, medium %d, hard %d.",
			roundedMean(outcomes[0:2]), roundedMean(outcomes[2:4]), roundedMean(outcomes[4:6])))
	}
	if timeouts > 0 {
		sb.WriteString(fmt.Sprintf(" %d question(s) timed out without an answer.", timeouts))
	}
	return sb.String()
}

func band(score int) string {
	switch {
	case score >= 80:
		return "a strong performance"
	case score >= 60:
		return "a solid performance"
	case score >= 40:
		return "a mixed performance"
	default:
		return "a weak performance"
	}
}

func roundedMean(outcomes []domain.Outcome) int {
	sum := 0
	for _, o := range outcomes {
		sum += o.Score
	}
	return int(math.Round(float64(sum) / float64(len(outcomes))))
}
