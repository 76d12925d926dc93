package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"cafeteria-reservations/internal/core/session"
	"cafeteria-reservations/internal/domain"
)

// Sampler 决定本次读取是否回源刷新
type Sampler func() bool

// Bernoulli 以概率 p 返回 true
func Bernoulli(p float64) Sampler {
	return func() bool { return rand.Float64() < p }
}

type IdentityResolver struct {
	users    domain.UserRepository
	sessions session.Provider
	sample   Sampler
	log      *zap.Logger
}

func NewIdentityResolver(users domain.UserRepository, sessions session.Provider, sample Sampler, l *zap.Logger) *IdentityResolver {
	if sample == nil {
		sample = Bernoulli(0.1)
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &IdentityResolver{users: users, sessions: sessions, sample: sample, log: l}
}

// Login 按证件号查找用户，不存在则创建普通用户；已存在的资料不被修改
func (r *IdentityResolver) Login(ctx context.Context, sid, nationalID, fullName string) (*domain.User, bool, error) {
	nid, name, err := domain.NormalizeLogin(nationalID, fullName)
	if err != nil {
		return nil, false, err
	}
	u, err := r.users.FindByNationalID(ctx, nid)
	if err != nil {
		return nil, false, err
	}
	isNew := false
	if u == nil {
		u = &domain.User{NationalID: nid, FullName: name, Role: domain.RoleRegular}
		switch err := r.users.Create(ctx, u); {
		case errors.Is(err, domain.ErrConflict):
			// 并发首登：对方已建好，读回即可
			if u, err = r.users.FindByNationalID(ctx, nid); err != nil {
				return nil, false, err
			}
			if u == nil {
				return nil, false, domain.ErrConflict
			}
		case err != nil:
			return nil, false, err
		default:
			isNew = true
		}
	}
	if err := r.remember(ctx, sid, u); err != nil {
		return nil, false, err
	}
	r.log.Info("login", zap.String("uid", u.ID), zap.Bool("new", isNew))
	return u, isNew, nil
}

// Lookup 只查不建，管理端登录先用它校验角色
func (r *IdentityResolver) Lookup(ctx context.Context, nationalID string) (*domain.User, error) {
	nid, err := domain.NormalizeNationalID(nationalID)
	if err != nil {
		return nil, err
	}
	return r.users.FindByNationalID(ctx, nid)
}

// Current 返回会话中的身份；会话损坏时清空并返回 nil
func (r *IdentityResolver) Current(ctx context.Context, sid string) *domain.User {
	raw, ok, err := r.sessions.Get(ctx, sid, session.KeyCurrentUser)
	if err != nil {
		r.log.Warn("session read failed", zap.Error(err))
		r.forget(ctx, sid)
		return nil
	}
	if !ok {
		return nil
	}
	nid, ok, err := r.sessions.Get(ctx, sid, session.KeyUserIdentifier)
	if err != nil || !ok {
		r.forget(ctx, sid)
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		r.log.Warn("corrupt session identity", zap.String("sid", sid))
		r.forget(ctx, sid)
		return nil
	}
	if r.sample() {
		// 刷新失败保留缓存身份
		if fresh, err := r.reload(ctx, sid, nid); err == nil && fresh != nil {
			return fresh
		} else if err != nil {
			r.log.Debug("identity refresh skipped", zap.Error(err))
		}
	}
	return &u
}

// Refresh 强制回源；用户已不存在时清空会话
func (r *IdentityResolver) Refresh(ctx context.Context, sid string) (*domain.User, error) {
	cur := r.Current(ctx, sid)
	if cur == nil {
		return nil, nil
	}
	u, err := r.reload(ctx, sid, cur.NationalID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		r.forget(ctx, sid)
	}
	return u, nil
}

func (r *IdentityResolver) Logout(ctx context.Context, sid string) error {
	return r.sessions.Clear(ctx, sid)
}

// reload 按证件号回源并刷新会话
func (r *IdentityResolver) reload(ctx context.Context, sid, nationalID string) (*domain.User, error) {
	u, err := r.users.FindByNationalID(ctx, nationalID)
	if err != nil || u == nil {
		return nil, err
	}
	if err := r.remember(ctx, sid, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *IdentityResolver) remember(ctx context.Context, sid string, u *domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := r.sessions.Set(ctx, sid, session.KeyCurrentUser, string(b)); err != nil {
		return domain.Store("save session", err)
	}
	if err := r.sessions.Set(ctx, sid, session.KeyUserIdentifier, u.NationalID); err != nil {
		return domain.Store("save session", err)
	}
	return nil
}

func (r *IdentityResolver) forget(ctx context.Context, sid string) {
	if err := r.sessions.Clear(ctx, sid); err != nil {
		r.log.Warn("session clear failed", zap.Error(err))
	}
}
