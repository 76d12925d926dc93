package repo

import (
	"gorm.io/gorm"

	"cafeteria-reservations/internal/feature/menu"
	"cafeteria-reservations/internal/feature/reservation"
	"cafeteria-reservations/internal/feature/user"
)

// AutoMigrate 建表 + 唯一索引 + slot 检查约束
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.UserModel{},
		&menu.MenuModel{},
		&menu.DishModel{},
		&reservation.ReservationModel{},
	)
}
