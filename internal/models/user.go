package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carpool-backend/internal/domain"
)

type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"column:username;unique;not null"`
	Email        string `json:"email" gorm:"column:email;unique;not null"`
	Password     string `json:"-" gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string `json:"phoneNumber" gorm:"column:phone_number"`
	Role         string `json:"role" gorm:"column:role;not null;default:'passenger'"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// Actor builds the command context passed into the core.
func (u *User) Actor() domain.Actor {
	return domain.Actor{ID: u.ID, Role: domain.Role(u.Role)}
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
