package user

import (
	"time"

	"cafeteria-reservations/internal/domain"
)

type UserModel struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	NationalID   string `gorm:"uniqueIndex;size:8;not null"`
	FullName     string `gorm:"size:128;not null"`
	Role         string `gorm:"size:16;not null"`
	IsVegetarian bool   `gorm:"not null"`
	IsCeliac     bool   `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain 未知角色直接拒绝
func (m UserModel) ToDomain() (domain.User, error) {
	role, err := domain.ParseRole(m.Role)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:           m.ID,
		NationalID:   m.NationalID,
		FullName:     m.FullName,
		Role:         role,
		IsVegetarian: m.IsVegetarian,
		IsCeliac:     m.IsCeliac,
		CreatedAt:    m.CreatedAt,
	}, nil
}

func FromDomain(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		NationalID:   u.NationalID,
		FullName:     u.FullName,
		Role:         string(u.Role),
		IsVegetarian: u.IsVegetarian,
		IsCeliac:     u.IsCeliac,
		CreatedAt:    u.CreatedAt,
	}
}
