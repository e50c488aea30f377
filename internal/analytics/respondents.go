package analytics

import (
	"fmt"

	"github.com/pulseworks/pulse/internal/models"
)

// Respondents maps the distinct users holding a result for survey to
// anonymous display labels "User 1", "User 2", ... in enumeration order,
// optionally restricted to one employee group. Labels are stable only within
// a single invocation; they exist for the lifetime of one report render and
// are never persisted.
func (e *Engine) Respondents(survey *models.Survey, group *models.EmployeeGroup) (map[string]*models.CustomUser, error) {
	if survey == nil {
		return nil, NewInvalidError("survey required")
	}
	var groupID *uint
	if group != nil {
		id := group.ID
		groupID = &id
	}
	results, err := e.store.ListResults(survey.ID, groupID)
	if err != nil {
		return nil, err
	}
	labeled := make(map[string]*models.CustomUser)
	seen := make(map[uint]bool)
	i := 0
	for _, r := range results {
		if r.User == nil || seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		i++
		labeled[fmt.Sprintf("User %d", i)] = r.User
	}
	return labeled, nil
}
