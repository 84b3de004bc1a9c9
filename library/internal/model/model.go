package model

import (
	"github.com/Astemirdum/library-management/pkg/auth"
)

type PageRequest struct {
	Limit  int
	Offset int
	Search string
}

type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type Member struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Age          int       `json:"age" db:"age"`
	PhoneNumber  string    `json:"phoneNumber" db:"phone_number"`
	Email        string    `json:"email" db:"email"`
	Address      string    `json:"address" db:"address"`
	Password     string    `json:"-" db:"password"`
	Role         auth.Role `json:"role" db:"role"`
	RefreshToken *string   `json:"-" db:"refresh_token"`
}

type MemberCreateRequest struct {
	Name        string    `json:"name" validate:"required,min=3,max=35"`
	Age         int       `json:"age" validate:"required,gte=5,lte=100"`
	PhoneNumber string    `json:"phoneNumber" validate:"required,numeric,min=10,max=12"`
	Email       string    `json:"email" validate:"required,email,max=255"`
	Address     string    `json:"address" validate:"required,min=5,max=35"`
	Password    string    `json:"password" validate:"required,min=8,max=72"`
	Role        auth.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

type MemberUpdateRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=3,max=35"`
	Age         *int       `json:"age" validate:"omitempty,gte=5,lte=100"`
	PhoneNumber *string    `json:"phoneNumber" validate:"omitempty,numeric,min=10,max=12"`
	Email       *string    `json:"email" validate:"omitempty,email,max=255"`
	Address     *string    `json:"address" validate:"omitempty,min=5,max=35"`
	Password    *string    `json:"password" validate:"omitempty,min=8,max=72"`
	Role        *auth.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	MemberID     int64
	AccessToken  string
	RefreshToken string
}
