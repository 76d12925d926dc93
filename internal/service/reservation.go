package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"cafeteria-reservations/internal/domain"
)

// MenuSource 预约引擎读取菜单；DishOnDate 必须直接读存储
type MenuSource interface {
	GetMenuForDate(ctx context.Context, date domain.Date) (*domain.Menu, error)
	DishOnDate(ctx context.Context, dishID string, date domain.Date) (*domain.Dish, error)
}

type ReservationEngine struct {
	reservations domain.ReservationRepository
	menus        MenuSource
	log          *zap.Logger
}

func NewReservationEngine(reservations domain.ReservationRepository, menus MenuSource, l *zap.Logger) *ReservationEngine {
	if l == nil {
		l = zap.NewNop()
	}
	return &ReservationEngine{reservations: reservations, menus: menus, log: l}
}

func (e *ReservationEngine) CanReserve(u *domain.User, d domain.Dish) bool { return domain.CanReserve(u, d) }

// Toggle 已预约则取消（总是允许），否则按 身份 → 配额 → 资格 顺序校验后预约。
// 返回该用户当天的预约。
func (e *ReservationEngine) Toggle(ctx context.Context, u *domain.User, dish domain.Dish, date domain.Date) (out []domain.Reservation, err error) {
	defer func() { observeToggle(err) }()
	if u == nil {
		return nil, domain.ErrForbidden
	}
	cur, err := e.reservations.Find(ctx, u.ID, dish.ID, date)
	if err != nil {
		return nil, err
	}
	if cur != nil {
		return e.cancel(ctx, cur)
	}
	if u.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	held, err := e.reservations.ListForDay(ctx, u.ID, date)
	if err != nil {
		return nil, err
	}
	if len(held) >= domain.MaxReservationsPerDay {
		return nil, domain.ErrQuotaExceeded
	}
	if !domain.CanReserve(u, dish) {
		return nil, domain.ErrNotEligible
	}

	// 唯一约束兜底并发：冲突后重读一次再决定
	for attempt := 0; attempt < 2; attempt++ {
		slot := domain.FreeSlot(held)
		if slot == 0 {
			return nil, domain.ErrQuotaExceeded
		}
		r := &domain.Reservation{UserID: u.ID, DishID: dish.ID, Date: date, Slot: slot}
		err = e.reservations.Create(ctx, r)
		if err == nil {
			toggleTotal.WithLabelValues("reserved").Inc()
			return e.reservations.ListForDay(ctx, u.ID, date)
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		e.log.Debug("reservation conflict", zap.String("uid", u.ID), zap.String("dish", dish.ID), zap.Int("slot", slot))
		if held, err = e.reservations.ListForDay(ctx, u.ID, date); err != nil {
			return nil, err
		}
		for _, h := range held {
			if h.DishID == dish.ID {
				// 另一请求已预约同一道菜
				return held, nil
			}
		}
	}
	return nil, domain.ErrConflict
}

// ToggleToday 已有预约直接取消，不看菜单；新预约只允许当天菜单上的菜品
func (e *ReservationEngine) ToggleToday(ctx context.Context, u *domain.User, dishID string, today domain.Date) (out []domain.Reservation, err error) {
	if u == nil {
		return nil, domain.ErrForbidden
	}
	cur, err := e.reservations.Find(ctx, u.ID, dishID, today)
	if err != nil {
		return nil, err
	}
	if cur != nil {
		return e.cancel(ctx, cur)
	}
	dish, err := e.menus.DishOnDate(ctx, dishID, today)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, domain.ErrNotFound
	}
	return e.Toggle(ctx, u, *dish, today)
}

func (e *ReservationEngine) cancel(ctx context.Context, cur *domain.Reservation) ([]domain.Reservation, error) {
	if err := e.reservations.Delete(ctx, cur.ID); err != nil {
		return nil, err
	}
	toggleTotal.WithLabelValues("cancelled").Inc()
	return e.reservations.ListForDay(ctx, cur.UserID, cur.Date)
}

type DishView struct {
	domain.Dish
	Reserved bool `json:"reserved"`
	Eligible bool `json:"eligible"`
}

type MenuView struct {
	ID        string            `json:"id"`
	Date      domain.Date       `json:"date"`
	Status    domain.MenuStatus `json:"status"`
	Dishes    []DishView        `json:"dishes"`
	Remaining int               `json:"remaining"`
}

// MenuView 没有菜单返回 (nil, nil)；u 为 nil 时只读展示
func (e *ReservationEngine) MenuView(ctx context.Context, u *domain.User, date domain.Date) (*MenuView, error) {
	m, err := e.menus.GetMenuForDate(ctx, date)
	if err != nil || m == nil {
		return nil, err
	}
	var held []domain.Reservation
	if u != nil && !u.IsAdmin() {
		if held, err = e.reservations.ListForDay(ctx, u.ID, date); err != nil {
			return nil, err
		}
	}
	mine := make(map[string]bool, len(held))
	for _, r := range held {
		mine[r.DishID] = true
	}
	v := &MenuView{ID: m.ID, Date: m.Date, Status: m.Status, Dishes: make([]DishView, 0, len(m.Dishes))}
	for _, d := range m.Dishes {
		v.Dishes = append(v.Dishes, DishView{Dish: d, Reserved: mine[d.ID], Eligible: domain.CanReserve(u, d)})
	}
	if u != nil && !u.IsAdmin() {
		v.Remaining = Remaining(held)
	}
	return v, nil
}

// Remaining 当天剩余可预约数
func Remaining(held []domain.Reservation) int {
	n := domain.MaxReservationsPerDay - len(held)
	if n < 0 {
		return 0
	}
	return n
}
