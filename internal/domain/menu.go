package domain

import (
	"context"
	"strings"
)

// MaxDishesPerMenu 每种类型最多一道
const MaxDishesPerMenu = 3

type Menu struct {
	ID     string     `json:"id"`
	Date   Date       `json:"date"`
	Status MenuStatus `json:"status"`
	Dishes []Dish     `json:"dishes"`
}

type Dish struct {
	ID          string      `json:"id"`
	MenuID      string      `json:"menuId"`
	DietaryType DietaryType `json:"dietaryType"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
}

// DishInput 新建/编辑菜品的字段
type DishInput struct {
	DietaryType DietaryType `json:"dietaryType" binding:"required"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}

// Normalize 裁剪并校验名称
func (in DishInput) Normalize() (DishInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, &ValidationError{Field: "name", Msg: "is required"}
	}
	if _, err := ParseDietaryType(string(in.DietaryType)); err != nil {
		return in, err
	}
	return in, nil
}

// ValidateDishSet 替换菜品前的纯校验：1–3 道，类型不重复，名称非空
func ValidateDishSet(dishes []DishInput) ([]DishInput, error) {
	if len(dishes) == 0 || len(dishes) > MaxDishesPerMenu {
		return nil, &ValidationError{Field: "dishes", Msg: "must hold between 1 and 3 dishes"}
	}
	seen := make(map[DietaryType]struct{}, len(dishes))
	for _, d := range dishes {
		if _, err := ParseDietaryType(string(d.DietaryType)); err != nil {
			return nil, err
		}
		if _, dup := seen[d.DietaryType]; dup {
			return nil, ErrDuplicateDietaryType
		}
		seen[d.DietaryType] = struct{}{}
	}
	out := make([]DishInput, 0, len(dishes))
	for _, d := range dishes {
		n, err := d.Normalize()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// MissingTypes 菜单尚缺的类型，顺序 general → vegetarian → celiac-safe
func (m *Menu) MissingTypes() []DietaryType {
	have := make(map[DietaryType]bool, len(m.Dishes))
	for _, d := range m.Dishes {
		have[d.DietaryType] = true
	}
	var out []DietaryType
	for _, t := range DietaryTypes {
		if !have[t] {
			out = append(out, t)
		}
	}
	return out
}

// DefaultDish 占位菜品
func DefaultDish(t DietaryType) DishInput {
	return DishInput{
		DietaryType: t,
		Name:        "New " + string(t) + " dish",
		Description: "Dish description",
	}
}

func (m *Menu) Dish(id string) (Dish, bool) {
	for _, d := range m.Dishes {
		if d.ID == id {
			return d, true
		}
	}
	return Dish{}, false
}

// MenuRepository 查不到时返回 (nil, nil)
type MenuRepository interface {
	Upsert(ctx context.Context, date Date, status MenuStatus) (string, error)
	Save(ctx context.Context, date Date, status MenuStatus, dishes []DishInput) (*Menu, error)
	ReplaceDishes(ctx context.Context, menuID string, dishes []DishInput) ([]Dish, error)
	FindByDate(ctx context.Context, date Date) (*Menu, error)
	FindByID(ctx context.Context, id string) (*Menu, error)
	List(ctx context.Context, offset, limit int) ([]Menu, int64, error)
	SetStatus(ctx context.Context, id string, status MenuStatus) error
	Delete(ctx context.Context, id string) error

	FindDish(ctx context.Context, id string) (*Dish, error)
	CreateDish(ctx context.Context, menuID string, in DishInput) (*Dish, error)
	UpdateDish(ctx context.Context, id string, in DishInput) (*Dish, error)
	DeleteDish(ctx context.Context, id string) error
}
