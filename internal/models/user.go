package models

import "time"

type UserRole string

const (
	RolePCP         UserRole = "pcp"
	RoleLogistica   UserRole = "logistica"
	RoleFaturamento UserRole = "faturamento"
	RoleAdmin       UserRole = "admin"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	FullName     string   `gorm:"size:120;not null"`
	Username     string   `gorm:"size:80;uniqueIndex;not null"`
	Email        string   `gorm:"size:120;uniqueIndex"`
	PasswordHash string   `gorm:"size:200;not null"`
	Role         UserRole `gorm:"size:50;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
