package domain

import "fmt"

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleRegular:
		return r, nil
	}
	return "", &ValidationError{Field: "role", Msg: fmt.Sprintf("unknown role %q", s)}
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// DietaryType 菜品类型
type DietaryType string

const (
	DietGeneral    DietaryType = "general"
	DietVegetarian DietaryType = "vegetarian"
	DietCeliacSafe DietaryType = "celiac-safe"
)

// DietaryTypes 按补菜顺序排列
var DietaryTypes = []DietaryType{DietGeneral, DietVegetarian, DietCeliacSafe}

func ParseDietaryType(s string) (DietaryType, error) {
	switch t := DietaryType(s); t {
	case DietGeneral, DietVegetarian, DietCeliacSafe:
		return t, nil
	}
	return "", &ValidationError{Field: "dietaryType", Msg: fmt.Sprintf("unknown dietary type %q", s)}
}

func (t *DietaryType) UnmarshalText(b []byte) error {
	v, err := ParseDietaryType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MenuStatus 菜单确认状态
type MenuStatus string

const (
	StatusConfirmed MenuStatus = "confirmed"
	StatusPending   MenuStatus = "pending-confirmation"
)

func ParseMenuStatus(s string) (MenuStatus, error) {
	switch st := MenuStatus(s); st {
	case StatusConfirmed, StatusPending:
		return st, nil
	}
	return "", &ValidationError{Field: "status", Msg: fmt.Sprintf("unknown menu status %q", s)}
}

func (s *MenuStatus) UnmarshalText(b []byte) error {
	v, err := ParseMenuStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
