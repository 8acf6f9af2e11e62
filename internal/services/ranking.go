package services

import (
	"slices"
	"strings"

	"github.com/NishantsCode/NextHire/internal/models"
)

// RankApplications returns a sorted copy: scored before unscored, higher score
// first, newer submission first otherwise. ID breaks the remaining ties.
func RankApplications(applications []models.Application) []models.Application {
	ranked := slices.Clone(applications)
	slices.SortStableFunc(ranked, compareApplications)
	return ranked
}

func compareApplications(a, b models.Application) int {
	aScored, bScored := a.Scored(), b.Scored()

	switch {
	case aScored && bScored:
		if a.ATSScore.Score != b.ATSScore.Score {
			return b.ATSScore.Score - a.ATSScore.Score
		}
	case aScored:
		return -1
	case bScored:
		return 1
	}

	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}
