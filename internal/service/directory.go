package service

import (
	"context"

	"go.uber.org/zap"

	"cafeteria-reservations/internal/domain"
)

// MenuCache 按日期缓存菜单读
type MenuCache interface {
	Load(ctx context.Context, date domain.Date, load func(context.Context) (*domain.Menu, error)) (*domain.Menu, error)
	Invalidate(ctx context.Context, date domain.Date) error
}

// DishCount 管理端预约统计行
type DishCount struct {
	Dish  domain.Dish `json:"dish"`
	Count int64       `json:"count"`
}

type MenuDirectory struct {
	menus        domain.MenuRepository
	reservations domain.ReservationRepository
	cache        MenuCache
	log          *zap.Logger
}

// NewMenuDirectory cache 可为 nil
func NewMenuDirectory(menus domain.MenuRepository, reservations domain.ReservationRepository, cache MenuCache, l *zap.Logger) *MenuDirectory {
	if l == nil {
		l = zap.NewNop()
	}
	return &MenuDirectory{menus: menus, reservations: reservations, cache: cache, log: l}
}

func (d *MenuDirectory) UpsertMenu(ctx context.Context, date domain.Date, status domain.MenuStatus) (string, error) {
	if _, err := domain.ParseDate(string(date)); err != nil {
		return "", err
	}
	if _, err := domain.ParseMenuStatus(string(status)); err != nil {
		return "", err
	}
	id, err := d.menus.Upsert(ctx, date, status)
	if err != nil {
		return "", err
	}
	d.invalidate(ctx, date)
	return id, nil
}

// ReplaceDishes 校验通过后才写库；先删后插在同一事务内
func (d *MenuDirectory) ReplaceDishes(ctx context.Context, menuID string, dishes []domain.DishInput) ([]domain.Dish, error) {
	clean, err := domain.ValidateDishSet(dishes)
	if err != nil {
		return nil, err
	}
	out, err := d.menus.ReplaceDishes(ctx, menuID, clean)
	if err != nil {
		return nil, err
	}
	d.invalidateMenu(ctx, menuID)
	return out, nil
}

// SaveMenu 管理端一次保存：upsert 菜单并替换菜品
func (d *MenuDirectory) SaveMenu(ctx context.Context, date domain.Date, status domain.MenuStatus, dishes []domain.DishInput) (*domain.Menu, error) {
	if _, err := domain.ParseDate(string(date)); err != nil {
		return nil, err
	}
	if _, err := domain.ParseMenuStatus(string(status)); err != nil {
		return nil, err
	}
	clean, err := domain.ValidateDishSet(dishes)
	if err != nil {
		return nil, err
	}
	m, err := d.menus.Save(ctx, date, status, clean)
	if err != nil {
		return nil, err
	}
	d.invalidate(ctx, date)
	return m, nil
}

// GetMenuForDate 没有菜单返回 (nil, nil)
func (d *MenuDirectory) GetMenuForDate(ctx context.Context, date domain.Date) (*domain.Menu, error) {
	if d.cache == nil {
		return d.menus.FindByDate(ctx, date)
	}
	return d.cache.Load(ctx, date, func(ctx context.Context) (*domain.Menu, error) {
		return d.menus.FindByDate(ctx, date)
	})
}

// DishOnDate 菜品存在且属于该日期的菜单才返回；不走缓存
func (d *MenuDirectory) DishOnDate(ctx context.Context, dishID string, date domain.Date) (*domain.Dish, error) {
	dish, err := d.menus.FindDish(ctx, dishID)
	if err != nil || dish == nil {
		return nil, err
	}
	m, err := d.menus.FindByID(ctx, dish.MenuID)
	if err != nil || m == nil {
		return nil, err
	}
	if m.Date != date {
		return nil, nil
	}
	return dish, nil
}

func (d *MenuDirectory) GetMenu(ctx context.Context, id string) (*domain.Menu, error) {
	m, err := d.menus.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (d *MenuDirectory) ListMenus(ctx context.Context, offset, limit int) ([]domain.Menu, int64, error) {
	return d.menus.List(ctx, offset, limit)
}

// DeleteMenu 不存在的 id 也视为成功
func (d *MenuDirectory) DeleteMenu(ctx context.Context, id string) error {
	m, err := d.menus.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := d.menus.Delete(ctx, id); err != nil {
		return err
	}
	if m != nil {
		d.invalidate(ctx, m.Date)
	}
	return nil
}

func (d *MenuDirectory) SetMenuStatus(ctx context.Context, id string, status domain.MenuStatus) error {
	if _, err := domain.ParseMenuStatus(string(status)); err != nil {
		return err
	}
	if err := d.menus.SetStatus(ctx, id, status); err != nil {
		return err
	}
	d.invalidateMenu(ctx, id)
	return nil
}

func (d *MenuDirectory) UpdateDish(ctx context.Context, id string, in domain.DishInput) (*domain.Dish, error) {
	clean, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	dish, err := d.menus.UpdateDish(ctx, id, clean)
	if err != nil {
		return nil, err
	}
	d.invalidateMenu(ctx, dish.MenuID)
	return dish, nil
}

func (d *MenuDirectory) DeleteDish(ctx context.Context, id string) error {
	dish, err := d.menus.FindDish(ctx, id)
	if err != nil {
		return err
	}
	if dish == nil {
		return nil
	}
	if err := d.menus.DeleteDish(ctx, id); err != nil {
		return err
	}
	d.invalidateMenu(ctx, dish.MenuID)
	return nil
}

// AddDefaultDish 按 general → vegetarian → celiac-safe 补第一个缺失类型的占位菜品
func (d *MenuDirectory) AddDefaultDish(ctx context.Context, menuID string) (*domain.Dish, error) {
	m, err := d.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	missing := m.MissingTypes()
	if len(missing) == 0 {
		return nil, domain.ErrMenuFull
	}
	dish, err := d.menus.CreateDish(ctx, m.ID, domain.DefaultDish(missing[0]))
	if err != nil {
		return nil, err
	}
	d.invalidate(ctx, m.Date)
	return dish, nil
}

// ReservationSummary 每道菜的预约数，按菜品顺序
func (d *MenuDirectory) ReservationSummary(ctx context.Context, menuID string) ([]DishCount, error) {
	m, err := d.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	counts, err := d.reservations.CountByDish(ctx, menuID)
	if err != nil {
		return nil, err
	}
	out := make([]DishCount, 0, len(m.Dishes))
	for _, dish := range m.Dishes {
		out = append(out, DishCount{Dish: dish, Count: counts[dish.ID]})
	}
	return out, nil
}

func (d *MenuDirectory) invalidate(ctx context.Context, date domain.Date) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Invalidate(ctx, date); err != nil {
		d.log.Warn("menu cache invalidate failed", zap.String("date", string(date)), zap.Error(err))
	}
}

func (d *MenuDirectory) invalidateMenu(ctx context.Context, menuID string) {
	if d.cache == nil {
		return
	}
	m, err := d.menus.FindByID(ctx, menuID)
	if err != nil || m == nil {
		return
	}
	d.invalidate(ctx, m.Date)
}
