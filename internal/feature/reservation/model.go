package reservation

import (
	"time"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/feature/menu"
)

// ReservationModel 两个唯一索引 + slot 检查约束在存储层兜住配额：
// (user_id, dish_id, date) 不重复；(user_id, date, slot) 不重复且 slot ∈ {1,2}。
// dish_id 外键级联删除，菜品删掉后不会留下孤儿预约
type ReservationModel struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_reservation_dish;uniqueIndex:idx_reservation_slot" json:"userId"`
	DishID string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_reservation_dish" json:"dishId"`
	Date   string `gorm:"size:10;not null;uniqueIndex:idx_reservation_dish;uniqueIndex:idx_reservation_slot" json:"date"`
	Slot   int    `gorm:"not null;uniqueIndex:idx_reservation_slot;check:slot BETWEEN 1 AND 2" json:"slot"`

	Dish *menu.DishModel `gorm:"foreignKey:DishID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ReservationModel) TableName() string { return "reservations" }

func (m ReservationModel) ToDomain() (domain.Reservation, error) {
	date, err := domain.ParseDate(m.Date)
	if err != nil {
		return domain.Reservation{}, err
	}
	return domain.Reservation{
		ID:        m.ID,
		UserID:    m.UserID,
		DishID:    m.DishID,
		Date:      date,
		Slot:      m.Slot,
		CreatedAt: m.CreatedAt,
	}, nil
}

func FromDomain(r domain.Reservation) ReservationModel {
	return ReservationModel{
		ID:     r.ID,
		UserID: r.UserID,
		DishID: r.DishID,
		Date:   string(r.Date),
		Slot:   r.Slot,
	}
}
