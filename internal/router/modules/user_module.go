package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-library-rental/internal/container"
	handlers "github.com/oksasatya/go-library-rental/internal/interface/http"
	"github.com/oksasatya/go-library-rental/internal/interface/middleware"
)

// UserModule exposes member CRUD under /users.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	g := rg.Group("/users")
	g.POST("", signupLimiter, m.Handler.Create)
	g.GET("", m.Handler.List)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
