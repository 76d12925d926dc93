package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/feature/user"
	"cafeteria-reservations/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	m := user.FromDomain(*u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrConflict
		}
		return domain.Store("create user", err)
	}
	u.CreatedAt = m.CreatedAt
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	return r.first(ctx, "national_id = ?", nationalID)
}

func (r *UserRepo) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, cond, arg).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("find user", err)
	}
	u, err := m.ToDomain()
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&user.UserModel{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("national_id LIKE ? OR full_name LIKE ?", like, like)
	}
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, domain.Store("count users", err)
	}
	var ms []user.UserModel
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, 0, domain.Store("list users", err)
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		u, err := m.ToDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p domain.Profile) (*domain.User, error) {
	if _, err := domain.ParseRole(string(p.Role)); err != nil {
		return nil, err
	}
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	// map 形式才能把 false 写进去
	err = r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Updates(map[string]any{
		"role":          string(p.Role),
		"is_vegetarian": p.IsVegetarian,
		"is_celiac":     p.IsCeliac,
	}).Error
	if err != nil {
		return nil, domain.Store("update user profile", err)
	}
	return r.FindByID(ctx, id)
}

// EnsureAdmin 启动时预置管理员；已存在则只提升角色
func (r *UserRepo) EnsureAdmin(ctx context.Context, nationalID, fullName string) (*domain.User, error) {
	nid, name, err := domain.NormalizeLogin(nationalID, fullName)
	if err != nil {
		return nil, err
	}
	u, err := r.FindByNationalID(ctx, nid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &domain.User{NationalID: nid, FullName: name, Role: domain.RoleAdmin}
		if err := r.Create(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}
	if u.Role == domain.RoleAdmin {
		return u, nil
	}
	return r.UpdateProfile(ctx, u.ID, domain.Profile{Role: domain.RoleAdmin, IsVegetarian: u.IsVegetarian, IsCeliac: u.IsCeliac})
}
