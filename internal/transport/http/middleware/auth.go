package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cafeteria-reservations/internal/core/auth"
	"cafeteria-reservations/internal/domain"
	resp "cafeteria-reservations/internal/transport/http/response"
)

const (
	KeyUser   = "user"
	KeyUserID = "userId"
	KeyRole   = "role"
	KeySID    = "sid"
)

// Resolver 由会话 ID 取当前身份
type Resolver interface {
	Current(ctx context.Context, sid string) *domain.User
}

// Authenticate 解析 Bearer 令牌并从会话加载身份；required=false 时匿名放行
func Authenticate(j *auth.JWTer, r Resolver, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, sid := identify(c, j, r)
		if u == nil {
			if required {
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			c.Next()
			return
		}
		c.Set(KeySID, sid)
		c.Set(KeyUser, u)
		c.Set(KeyUserID, u.ID)
		c.Set(KeyRole, string(u.Role))
		c.Next()
	}
}

func identify(c *gin.Context, j *auth.JWTer, r Resolver) (*domain.User, string) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return nil, ""
	}
	claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return nil, ""
	}
	u := r.Current(c.Request.Context(), claims.SID)
	if u == nil || u.ID != claims.UID {
		return nil, ""
	}
	return u, claims.SID
}

// RequireRole 需在 Authenticate 之后
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyUserID) == "" {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		if c.GetString(KeyRole) != string(role) {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Next()
	}
}

// CurrentUser 匿名请求返回 nil
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(KeyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func SessionID(c *gin.Context) string { return c.GetString(KeySID) }
