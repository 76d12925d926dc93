package repo

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/feature/menu"
	"cafeteria-reservations/internal/feature/reservation"
	"cafeteria-reservations/pkg/utils"
)

type MenuRepo struct{ db *gorm.DB }

func NewMenuRepo(db *gorm.DB) *MenuRepo { return &MenuRepo{db: db} }

var _ domain.MenuRepository = (*MenuRepo)(nil)

func (r *MenuRepo) Upsert(ctx context.Context, date domain.Date, status domain.MenuStatus) (string, error) {
	return upsertMenu(r.db.WithContext(ctx), date, status)
}

// upsertMenu 以 date 为冲突键；冲突时只覆盖 status，再按 date 读回真实 ID
func upsertMenu(tx *gorm.DB, date domain.Date, status domain.MenuStatus) (string, error) {
	m := menu.MenuModel{ID: utils.NewID(), Date: string(date), Status: string(status)}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Omit(clause.Associations).Create(&m).Error
	if err != nil {
		return "", domain.Store("upsert menu", err)
	}
	var got menu.MenuModel
	if err := tx.Select("id").First(&got, "date = ?", string(date)).Error; err != nil {
		return "", domain.Store("upsert menu", err)
	}
	return got.ID, nil
}

// Save 管理端“保存菜单”：upsert + 替换菜品，同一事务
func (r *MenuRepo) Save(ctx context.Context, date domain.Date, status domain.MenuStatus, dishes []domain.DishInput) (*domain.Menu, error) {
	var id string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e error
		if id, e = upsertMenu(tx, date, status); e != nil {
			return e
		}
		_, e = replaceDishes(tx, id, dishes)
		return e
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *MenuRepo) ReplaceDishes(ctx context.Context, menuID string, dishes []domain.DishInput) ([]domain.Dish, error) {
	var out []domain.Dish
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m menu.MenuModel
		if err := tx.Select("id").First(&m, "id = ?", menuID).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrNotFound
			}
			return domain.Store("replace dishes", err)
		}
		var e error
		out, e = replaceDishes(tx, menuID, dishes)
		return e
	})
	return out, err
}

// replaceDishes 先删后插；被删菜品上的预约一并删除
func replaceDishes(tx *gorm.DB, menuID string, dishes []domain.DishInput) ([]domain.Dish, error) {
	if err := deleteDishesWhere(tx, "menu_id = ?", menuID); err != nil {
		return nil, err
	}
	rows := make([]menu.DishModel, 0, len(dishes))
	for _, in := range dishes {
		rows = append(rows, menu.NewDish(utils.NewID(), menuID, in))
	}
	if err := tx.Create(&rows).Error; err != nil {
		if isDupKey(err) {
			return nil, domain.ErrDuplicateDietaryType
		}
		return nil, domain.Store("insert dishes", err)
	}
	out := make([]domain.Dish, 0, len(rows))
	for _, m := range rows {
		d, err := m.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	sortDishes(out)
	return out, nil
}

func deleteDishesWhere(tx *gorm.DB, cond string, args ...any) error {
	var ids []string
	if err := tx.Model(&menu.DishModel{}).Where(cond, args...).Pluck("id", &ids).Error; err != nil {
		return domain.Store("delete dishes", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("dish_id IN ?", ids).Delete(&reservation.ReservationModel{}).Error; err != nil {
		return domain.Store("delete reservations", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&menu.DishModel{}).Error; err != nil {
		return domain.Store("delete dishes", err)
	}
	return nil
}

func (r *MenuRepo) FindByDate(ctx context.Context, date domain.Date) (*domain.Menu, error) {
	return r.first(ctx, "date = ?", string(date))
}

func (r *MenuRepo) FindByID(ctx context.Context, id string) (*domain.Menu, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *MenuRepo) first(ctx context.Context, cond string, arg any) (*domain.Menu, error) {
	var m menu.MenuModel
	err := r.db.WithContext(ctx).Preload("Dishes").First(&m, cond, arg).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("find menu", err)
	}
	out, err := m.ToDomain()
	if err != nil {
		return nil, err
	}
	sortDishes(out.Dishes)
	return &out, nil
}

// List 按日期倒序
func (r *MenuRepo) List(ctx context.Context, offset, limit int) ([]domain.Menu, int64, error) {
	tx := r.db.WithContext(ctx).Model(&menu.MenuModel{}).Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, domain.Store("count menus", err)
	}
	var ms []menu.MenuModel
	if err := tx.Preload("Dishes").Order("date DESC").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, 0, domain.Store("list menus", err)
	}
	out := make([]domain.Menu, 0, len(ms))
	for _, m := range ms {
		dm, err := m.ToDomain()
		if err != nil {
			return nil, 0, err
		}
		sortDishes(dm.Dishes)
		out = append(out, dm)
	}
	return out, total, nil
}

func (r *MenuRepo) SetStatus(ctx context.Context, id string, status domain.MenuStatus) error {
	db := r.db.WithContext(ctx)
	var m menu.MenuModel
	if err := db.Select("id").First(&m, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		return domain.Store("set menu status", err)
	}
	if err := db.Model(&menu.MenuModel{}).Where("id = ?", id).Update("status", string(status)).Error; err != nil {
		return domain.Store("set menu status", err)
	}
	return nil
}

// Delete 级联删除菜品与预约；不存在不报错
func (r *MenuRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDishesWhere(tx, "menu_id = ?", id); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&menu.MenuModel{}).Error; err != nil {
			return domain.Store("delete menu", err)
		}
		return nil
	})
}

func (r *MenuRepo) FindDish(ctx context.Context, id string) (*domain.Dish, error) {
	var m menu.DishModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("find dish", err)
	}
	d, err := m.ToDomain()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *MenuRepo) CreateDish(ctx context.Context, menuID string, in domain.DishInput) (*domain.Dish, error) {
	m := menu.NewDish(utils.NewID(), menuID, in)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return nil, domain.ErrDuplicateDietaryType
		}
		return nil, domain.Store("create dish", err)
	}
	d, err := m.ToDomain()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDish 改类型时同菜单内不得重复
func (r *MenuRepo) UpdateDish(ctx context.Context, id string, in domain.DishInput) (*domain.Dish, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur menu.DishModel
		if err := tx.First(&cur, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrNotFound
			}
			return domain.Store("update dish", err)
		}
		if cur.DietaryType != string(in.DietaryType) {
			var n int64
			if err := tx.Model(&menu.DishModel{}).
				Where("menu_id = ? AND dietary_type = ? AND id <> ?", cur.MenuID, string(in.DietaryType), id).
				Count(&n).Error; err != nil {
				return domain.Store("update dish", err)
			}
			if n > 0 {
				return domain.ErrDuplicateDietaryType
			}
		}
		next := menu.NewDish(id, cur.MenuID, in)
		err := tx.Model(&menu.DishModel{}).Where("id = ?", id).Updates(map[string]any{
			"dietary_type": next.DietaryType,
			"name":         next.Name,
			"description":  next.Description,
		}).Error
		if err != nil {
			if isDupKey(err) {
				return domain.ErrDuplicateDietaryType
			}
			return domain.Store("update dish", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindDish(ctx, id)
}

func (r *MenuRepo) DeleteDish(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteDishesWhere(tx, "id = ?", id)
	})
}

func sortDishes(ds []domain.Dish) {
	rank := func(t domain.DietaryType) int {
		for i, v := range domain.DietaryTypes {
			if v == t {
				return i
			}
		}
		return len(domain.DietaryTypes)
	}
	sort.SliceStable(ds, func(i, j int) bool { return rank(ds[i].DietaryType) < rank(ds[j].DietaryType) })
}

