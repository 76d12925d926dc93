package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafeteria-reservations/internal/core/auth"
	"cafeteria-reservations/internal/core/server"
	mdw "cafeteria-reservations/internal/transport/http/middleware"
)

type Deps struct {
	Log          *zap.Logger
	JWT          *auth.JWTer
	Identity     mdw.Resolver
	AllowOrigins []string
	Modules      *Registry
}

func newEngine(d Deps, surface string) *gin.Engine {
	r := server.NewRouter(d.Log, server.Options{
		AllowOrigins: d.AllowOrigins,
		Recovery:     mdw.RecoveryResponse,
	})
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(surface),
		mdw.AccessLog(d.Log),
	)
	return r
}
