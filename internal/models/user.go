package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole controls what a user may do in the application. Stored as a
// short string, read as one of the constants below.
type UserRole string

const (
	RoleAdmin           UserRole = "admin"
	RoleSurveyCreator   UserRole = "surveycreator"
	RoleSurveyResponder UserRole = "surveyresponder"
)

// Organization is the tenant boundary. Employee groups, bank questions and
// users all hang off one organization.
type Organization struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	Groups []*EmployeeGroup `gorm:"foreignKey:OrganizationID" json:"-"`
}

// EmployeeGroup is a named subset of an organization's users. Surveys are
// targeted at groups, and analytics can be filtered down to one group. The
// analytics engine never mutates groups.
type EmployeeGroup struct {
	ID             uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string        `gorm:"size:255;not null" json:"name"`
	OrganizationID uint          `gorm:"index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Employees      []*CustomUser `gorm:"many2many:group_employees" json:"-"`
	Managers       []*CustomUser `gorm:"many2many:group_managers" json:"-"`
}

// CustomUser is an employee account. Password hashes are bcrypt and never
// serialized.
type CustomUser struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Role         UserRole  `gorm:"size:20;not null;default:'surveyresponder'" json:"role"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Groups []*EmployeeGroup `gorm:"many2many:group_employees" json:"-"`
}

// SetPassword replaces the stored hash with a bcrypt hash of plain.
func (u *CustomUser) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *CustomUser) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
