package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"-" gorm:"size:16;default:user"`
	CreatedAt    time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"-" gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
