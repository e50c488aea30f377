package api

import (
	"github.com/pulseworks/pulse/internal/analytics"
	"github.com/pulseworks/pulse/internal/models"
	"github.com/pulseworks/pulse/internal/store"
)

// Store is everything the HTTP layer needs from persistence: the engine's
// read surface, the publish/submit writes, and the lookups used to resolve
// request parameters. Both store.GormStore and store.MemoryStore satisfy it.
type Store interface {
	analytics.Store
	store.Writer

	ListSurveys() ([]*models.Survey, error)
	ListUserResults(userID uint) ([]*models.SurveyUserResult, error)
	GetResult(id uint) (*models.SurveyUserResult, error)
	GetUser(id uint) (*models.CustomUser, error)
	GetGroup(id uint) (*models.EmployeeGroup, error)
	FindUserByEmail(email string) (*models.CustomUser, error)
}

var (
	_ Store = (*store.GormStore)(nil)
	_ Store = (*store.MemoryStore)(nil)
)
