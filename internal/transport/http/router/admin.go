package router

import (
	"github.com/gin-gonic/gin"

	"cafeteria-reservations/internal/domain"
	mdw "cafeteria-reservations/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1，除登录外统一要求 admin 角色
func NewAdminEngine(d Deps) *gin.Engine {
	r := newEngine(d, "admin")
	admin := r.Group("/admin/v1")

	g := Groups{
		Public: admin.Group(""),
		Authed: admin.Group("",
			mdw.Authenticate(d.JWT, d.Identity, true),
			mdw.RequireRole(domain.RoleAdmin),
		),
	}
	d.Modules.MountAdmin(g)
	return r
}
