package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/accountsvc/internal/http/handlers"
	"github.com/you/accountsvc/internal/http/middleware"
	"github.com/you/accountsvc/internal/metrics"
)

// RouterDeps collects what BuildRouter wires together
type RouterDeps struct {
	Accounts       *handlers.AccountHandlers
	Sessions       *middleware.SessionMW
	Casbin         *middleware.CasbinMW
	LoginLimiter   *middleware.RateLimiter
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	Logger         *zap.Logger
}

func BuildRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger), middleware.HTTPMetrics(d.HTTPMetrics))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(d.MetricsHandler))

	account := r.Group("/api/account")
	account.POST("/create", d.Accounts.CreateUser)
	account.POST("/login", d.LoginLimiter.Limit(), d.Accounts.Login)
	account.POST("/logout", d.Accounts.Logout)
	account.POST("/seed-admin", d.Accounts.SeedAdmin)

	authed := account.Group("", d.Sessions.RequireSession())
	authed.GET("/me", d.Accounts.Me)

	admin := account.Group("", d.Sessions.RequireSession(), d.Casbin.Enforce())
	admin.POST("/admin", d.Accounts.CreateAdmin)
	admin.GET("/count", d.Accounts.CountUsers)

	return r
}
