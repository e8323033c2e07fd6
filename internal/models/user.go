package models

import (
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleOwner UserRole = "owner"
	RoleAdmin UserRole = "admin"
)

type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"column:username;unique;not null"`
	Email        string `json:"email" gorm:"column:email;unique;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string `json:"phoneNumber" gorm:"column:phone_number"`
	Role         string `json:"role" gorm:"column:role;not null;default:'user'"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
