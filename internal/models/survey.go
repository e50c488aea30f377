package models

import "time"

// SurveyTemplate is an editable draft owned by a survey creator. Publishing
// clones it into an immutable Survey instance.
type SurveyTemplate struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string      `gorm:"size:255;not null" json:"name"`
	CreatorID  uint        `gorm:"index" json:"creator_id"`
	Creator    *CustomUser `gorm:"foreignKey:CreatorID" json:"-"`
	Questions  []*Question `gorm:"foreignKey:TemplateID" json:"questions,omitempty"`
	LastEdited time.Time   `gorm:"autoUpdateTime" json:"last_edited"`
}

// Survey is a published instance sent to one or more employee groups. Its
// question list is immutable once published.
type Survey struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string           `gorm:"size:255;not null" json:"name"`
	CreatorID      uint             `gorm:"index" json:"creator_id"`
	Creator        *CustomUser      `gorm:"foreignKey:CreatorID" json:"-"`
	Groups         []*EmployeeGroup `gorm:"many2many:survey_groups" json:"-"`
	SendingDate    time.Time        `json:"sending_date"`
	Deadline       time.Time        `json:"deadline"`
	PublishedCount int              `gorm:"default:0" json:"published_count"`
	CollectedCount int              `gorm:"default:0" json:"collected_count"`
	IsVisible      bool             `gorm:"not null;default:true" json:"is_visible"`
	IsAnonymous    bool             `gorm:"not null;default:false" json:"is_anonymous"`

	Questions []*Question         `gorm:"foreignKey:SurveyID" json:"-"`
	Results   []*SurveyUserResult `gorm:"foreignKey:SurveyID" json:"-"`
}

// SurveyUserResult is the per-recipient response envelope for one published
// survey. One row exists per (survey, recipient) pair from publish time; it
// flips to answered when the recipient submits.
type SurveyUserResult struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	SurveyID   uint        `gorm:"index;not null" json:"survey_id"`
	Survey     *Survey     `gorm:"foreignKey:SurveyID" json:"-"`
	UserID     uint        `gorm:"index;not null" json:"user_id"`
	User       *CustomUser `gorm:"foreignKey:UserID" json:"-"`
	IsAnswered bool        `gorm:"not null;default:false" json:"is_answered"`
	AnsweredAt *time.Time  `json:"answered_at,omitempty"`

	Answers []*Answer `gorm:"foreignKey:ResultID" json:"-"`
}
