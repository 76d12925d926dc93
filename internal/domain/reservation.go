package domain

import (
	"context"
	"time"
)

// MaxReservationsPerDay 每人每天最多预约数
const MaxReservationsPerDay = 2

type Reservation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	DishID    string    `json:"dishId"`
	Date      Date      `json:"date"`
	Slot      int       `json:"slot"`
	CreatedAt time.Time `json:"createdAt"`
}

// CanReserve 仅对有饮食限制的用户屏蔽 general；管理员永不预约
func CanReserve(u *User, d Dish) bool {
	if u == nil || u.IsAdmin() {
		return false
	}
	if d.DietaryType == DietGeneral && u.HasRestriction() {
		return false
	}
	return true
}

// FreeSlot 返回未占用的槽位（1..MaxReservationsPerDay），满了返回 0
func FreeSlot(held []Reservation) int {
	used := make(map[int]bool, len(held))
	for _, r := range held {
		used[r.Slot] = true
	}
	for s := 1; s <= MaxReservationsPerDay; s++ {
		if !used[s] {
			return s
		}
	}
	return 0
}

func DishIDs(rs []Reservation) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.DishID)
	}
	return out
}

// ReservationRepository 查不到时返回 (nil, nil)；唯一约束冲突返回 ErrConflict
type ReservationRepository interface {
	ListForDay(ctx context.Context, userID string, date Date) ([]Reservation, error)
	Find(ctx context.Context, userID, dishID string, date Date) (*Reservation, error)
	Create(ctx context.Context, r *Reservation) error
	Delete(ctx context.Context, id string) error
	CountByDish(ctx context.Context, menuID string) (map[string]int64, error)
}
