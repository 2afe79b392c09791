package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/application"
	"github.com/oksasatya/go-library-rental/pkg/response"
)

type BookHandler struct {
	Svc    *application.BookService
	Logger *logrus.Logger
}

func NewBookHandler(svc *application.BookService, logger *logrus.Logger) *BookHandler {
	return &BookHandler{Svc: svc, Logger: logger}
}

func (h *BookHandler) List(c *gin.Context) {
	bs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, bs, "books", gin.H{"count": len(bs)})
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "externalId")
	if !ok {
		return
	}
	b, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "book", nil)
}

// Search: GET /books/search?q=dune&size=10
func (h *BookHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits), "q": q})
}

func (h *BookHandler) UpdateStock(c *gin.Context) {
	id, ok := pathID(c, "externalId")
	if !ok {
		return
	}
	var req application.UpdateStockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	b, err := h.Svc.UpdateStock(c.Request.Context(), id, *req.StockQuantity)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "stock updated", nil)
}

func (h *BookHandler) Import(c *gin.Context) {
	res, err := h.Svc.ImportFromCatalog(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "catalog imported", nil)
}

func (h *BookHandler) ImportOne(c *gin.Context) {
	id, ok := pathID(c, "externalId")
	if !ok {
		return
	}
	b, err := h.Svc.ImportOne(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "book imported", nil)
}
