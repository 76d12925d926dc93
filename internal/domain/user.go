package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	NationalID   string    `json:"nationalId"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	IsVegetarian bool      `json:"isVegetarian"`
	IsCeliac     bool      `json:"isCeliac"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// HasRestriction 任一饮食限制
func (u *User) HasRestriction() bool { return u.IsVegetarian || u.IsCeliac }

var nationalIDPattern = regexp.MustCompile(`^\d{7,8}$`)

func NormalizeNationalID(nationalID string) (string, error) {
	nid := strings.TrimSpace(nationalID)
	if !nationalIDPattern.MatchString(nid) {
		return "", &ValidationError{Field: "nationalId", Msg: "must be 7 or 8 digits"}
	}
	return nid, nil
}

// NormalizeLogin 校验证件号并裁剪输入；姓名只要求非空
func NormalizeLogin(nationalID, fullName string) (string, string, error) {
	nid, err := NormalizeNationalID(nationalID)
	if err != nil {
		return "", "", err
	}
	name := strings.TrimSpace(fullName)
	if name == "" {
		return "", "", &ValidationError{Field: "fullName", Msg: "is required"}
	}
	return nid, name, nil
}

// ValidateFullName 登录表单的姓名规则：裁剪后至少 2 个字符
func ValidateFullName(fullName string) error {
	if len([]rune(strings.TrimSpace(fullName))) < 2 {
		return &ValidationError{Field: "fullName", Msg: "must be at least 2 characters"}
	}
	return nil
}

// Profile 管理端可编辑的资料字段
type Profile struct {
	Role         Role `json:"role"`
	IsVegetarian bool `json:"isVegetarian"`
	IsCeliac     bool `json:"isCeliac"`
}

// UserRepository 查不到时返回 (nil, nil)
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByNationalID(ctx context.Context, nationalID string) (*User, error)
	Create(ctx context.Context, u *User) error
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
	UpdateProfile(ctx context.Context, id string, p Profile) (*User, error)
	EnsureAdmin(ctx context.Context, nationalID, fullName string) (*User, error)
}
