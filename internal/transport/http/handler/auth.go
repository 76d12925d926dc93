package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"cafeteria-reservations/internal/core/auth"
	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/service"
	"cafeteria-reservations/internal/transport/http/ez"
	mdw "cafeteria-reservations/internal/transport/http/middleware"
	"cafeteria-reservations/internal/transport/http/router"
)

// AuthModule 证件号 + 姓名登录；令牌只携带会话 ID
type AuthModule struct {
	Identity *service.IdentityResolver
	JWT      *auth.JWTer
}

func (m *AuthModule) Priority() int { return 10 }

type loginIn struct {
	NationalID string `json:"nationalId"`
	FullName   string `json:"fullName"`
}

type loginOut struct {
	Token string       `json:"token"`
	IsNew bool         `json:"isNew"`
	User  *domain.User `json:"user"`
}

func (m *AuthModule) MountAPI(g router.Groups) { m.mount(g, false) }

func (m *AuthModule) MountAdmin(g router.Groups) { m.mount(g, true) }

func (m *AuthModule) mount(g router.Groups, adminOnly bool) {
	// 登录按 IP 限速
	public := ez.New(g.Public.Group("", mdw.RateLimitPerIP(rate.Limit(1), 10)))
	ez.RegisterAction(public, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			// 表单规则：证件号优先报错，其次姓名长度
			if _, _, err := domain.NormalizeLogin(in.NationalID, in.FullName); err != nil {
				return loginOut{}, err
			}
			if err := domain.ValidateFullName(in.FullName); err != nil {
				return loginOut{}, err
			}
			ctx := c.Request.Context()
			if adminOnly {
				// 管理端不创建新用户：先查角色
				u, err := m.Identity.Lookup(ctx, in.NationalID)
				if err != nil {
					return loginOut{}, err
				}
				if !u.IsAdmin() {
					return loginOut{}, domain.ErrForbidden
				}
			}
			sid := uuid.NewString()
			u, isNew, err := m.Identity.Login(ctx, sid, in.NationalID, in.FullName)
			if err != nil {
				return loginOut{}, err
			}
			tok, err := m.JWT.Issue(sid, u.ID)
			if err != nil {
				return loginOut{}, ez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, IsNew: isNew, User: u}, nil
		},
	})

	authed := ez.New(g.Authed)
	ez.RegisterAction(authed, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := m.Identity.Logout(c.Request.Context(), mdw.SessionID(c)); err != nil {
				return nil, domain.Store("clear session", err)
			}
			return gin.H{"ok": true}, nil
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return mdw.CurrentUser(c), nil
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodPost,
		Path:   "/me/refresh",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			u, err := m.Identity.Refresh(c.Request.Context(), mdw.SessionID(c))
			if err != nil {
				return nil, err
			}
			if u == nil {
				return nil, ez.Unauthorized("session expired")
			}
			return u, nil
		},
	})
}
