package menu

import (
	"time"

	"cafeteria-reservations/internal/domain"
)

type MenuModel struct {
	ID     string      `gorm:"primaryKey;type:varchar(36)"`
	Date   string      `gorm:"uniqueIndex;size:10;not null"`
	Status string      `gorm:"size:32;not null"`
	Dishes []DishModel `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (MenuModel) TableName() string { return "menus" }

// 同一菜单内 dietary_type 唯一
type DishModel struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)"`
	MenuID      string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_dish_menu_type"`
	DietaryType string  `gorm:"size:16;not null;uniqueIndex:idx_dish_menu_type"`
	Name        string  `gorm:"size:128;not null"`
	Description *string `gorm:"size:512"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DishModel) TableName() string { return "dishes" }

func (m MenuModel) ToDomain() (domain.Menu, error) {
	date, err := domain.ParseDate(m.Date)
	if err != nil {
		return domain.Menu{}, err
	}
	status, err := domain.ParseMenuStatus(m.Status)
	if err != nil {
		return domain.Menu{}, err
	}
	out := domain.Menu{ID: m.ID, Date: date, Status: status, Dishes: make([]domain.Dish, 0, len(m.Dishes))}
	for _, d := range m.Dishes {
		dd, err := d.ToDomain()
		if err != nil {
			return domain.Menu{}, err
		}
		out.Dishes = append(out.Dishes, dd)
	}
	return out, nil
}

func (m DishModel) ToDomain() (domain.Dish, error) {
	t, err := domain.ParseDietaryType(m.DietaryType)
	if err != nil {
		return domain.Dish{}, err
	}
	d := domain.Dish{ID: m.ID, MenuID: m.MenuID, DietaryType: t, Name: m.Name}
	if m.Description != nil {
		d.Description = *m.Description
	}
	return d, nil
}

// NewDish 空描述存 NULL
func NewDish(id, menuID string, in domain.DishInput) DishModel {
	m := DishModel{ID: id, MenuID: menuID, DietaryType: string(in.DietaryType), Name: in.Name}
	if in.Description != "" {
		desc := in.Description
		m.Description = &desc
	}
	return m
}
