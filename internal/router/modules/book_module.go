package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-library-rental/internal/container"
	handlers "github.com/oksasatya/go-library-rental/internal/interface/http"
	"github.com/oksasatya/go-library-rental/internal/interface/middleware"
)

type BookModule struct {
	Handler *handlers.BookHandler
}

func NewBookModule(h *handlers.BookHandler) *BookModule {
	return &BookModule{Handler: h}
}

func (m *BookModule) Register(rg *gin.RouterGroup) {
	// catalog imports hit the external API
	importLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	g := rg.Group("/books")
	g.GET("", m.Handler.List)
	g.GET("/search", searchLimiter, m.Handler.Search)
	g.GET("/:externalId", m.Handler.Get)
	g.PUT("/:externalId/stock", m.Handler.UpdateStock)
	g.POST("/import", importLimiter, m.Handler.Import)
	g.POST("/import/:externalId", importLimiter, m.Handler.ImportOne)
}
