package router

import (
	"github.com/gin-gonic/gin"

	mdw "cafeteria-reservations/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：/api/v1，菜单可匿名浏览
func NewAPIEngine(d Deps) *gin.Engine {
	r := newEngine(d, "api")
	api := r.Group("/api/v1")

	// ⚠️ /me 等必须挂在 Authed，才能拿到 userId
	g := Groups{
		Public: api.Group("", mdw.Authenticate(d.JWT, d.Identity, false)),
		Authed: api.Group("", mdw.Authenticate(d.JWT, d.Identity, true)),
	}
	d.Modules.MountAPI(g)
	return r
}
