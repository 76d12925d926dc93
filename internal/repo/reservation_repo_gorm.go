package repo

import (
	"context"

	"gorm.io/gorm"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/feature/reservation"
	"cafeteria-reservations/pkg/utils"
)

type ReservationRepo struct{ db *gorm.DB }

func NewReservationRepo(db *gorm.DB) *ReservationRepo { return &ReservationRepo{db: db} }

var _ domain.ReservationRepository = (*ReservationRepo)(nil)

func (r *ReservationRepo) ListForDay(ctx context.Context, userID string, date domain.Date) ([]domain.Reservation, error) {
	var ms []reservation.ReservationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, string(date)).
		Order("slot").
		Find(&ms).Error
	if err != nil {
		return nil, domain.Store("list reservations", err)
	}
	out := make([]domain.Reservation, 0, len(ms))
	for _, m := range ms {
		rv, err := m.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, nil
}

func (r *ReservationRepo) Find(ctx context.Context, userID, dishID string, date domain.Date) (*domain.Reservation, error) {
	var m reservation.ReservationModel
	err := r.db.WithContext(ctx).
		First(&m, "user_id = ? AND dish_id = ? AND date = ?", userID, dishID, string(date)).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("find reservation", err)
	}
	rv, err := m.ToDomain()
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReservationRepo) Create(ctx context.Context, rv *domain.Reservation) error {
	if rv.ID == "" {
		rv.ID = utils.NewID()
	}
	m := reservation.FromDomain(*rv)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrConflict
		}
		if isFKViolation(err) {
			return domain.ErrNotFound
		}
		return domain.Store("create reservation", err)
	}
	rv.CreatedAt = m.CreatedAt
	return nil
}

func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&reservation.ReservationModel{}).Error; err != nil {
		return domain.Store("delete reservation", err)
	}
	return nil
}

// CountByDish 菜单内每道菜的预约数
func (r *ReservationRepo) CountByDish(ctx context.Context, menuID string) (map[string]int64, error) {
	type row struct {
		DishID string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&reservation.ReservationModel{}).
		Select("reservations.dish_id AS dish_id, COUNT(*) AS n").
		Joins("JOIN dishes ON dishes.id = reservations.dish_id").
		Where("dishes.menu_id = ?", menuID).
		Group("reservations.dish_id").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Store("count reservations", err)
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.DishID] = rw.N
	}
	return out, nil
}
