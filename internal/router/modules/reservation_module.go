package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-library-rental/internal/container"
	handlers "github.com/oksasatya/go-library-rental/internal/interface/http"
	"github.com/oksasatya/go-library-rental/internal/interface/middleware"
)

type ReservationModule struct {
	Handler *handlers.ReservationHandler
}

func NewReservationModule(h *handlers.ReservationHandler) *ReservationModule {
	return &ReservationModule{Handler: h}
}

func (m *ReservationModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByMethodAndPath(), middleware.AllowPrivateIP())
	reportLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIP(), nil)

	g := rg.Group("/reservations")
	g.POST("", writeLimiter, m.Handler.Create)
	g.GET("", m.Handler.List)
	g.GET("/active", m.Handler.ListActive)
	g.GET("/overdue", m.Handler.ListOverdue)
	g.POST("/overdue/report", reportLimiter, m.Handler.ExportOverdueReport)
	g.GET("/user/:userId", m.Handler.ListByUser)
	g.GET("/:id", m.Handler.Get)
	g.POST("/:id/return", writeLimiter, m.Handler.Return)
}
