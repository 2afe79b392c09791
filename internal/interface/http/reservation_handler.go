package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/internal/application"
	"github.com/oksasatya/go-library-rental/pkg/response"
)

type ReservationHandler struct {
	Svc    *application.ReservationService
	Logger *logrus.Logger
}

func NewReservationHandler(svc *application.ReservationService, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Logger: logger}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var req application.CreateReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "reservation created", nil)
}

func (h *ReservationHandler) Return(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req application.ReturnBookInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Return(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "book returned", nil)
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "reservation", nil)
}

func (h *ReservationHandler) List(c *gin.Context) {
	rs, err := h.Svc.List(c.Request.Context())
	h.list(c, "reservations", rs, err)
}

func (h *ReservationHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	rs, err := h.Svc.ListByUser(c.Request.Context(), userID)
	h.list(c, "user reservations", rs, err)
}

func (h *ReservationHandler) ListActive(c *gin.Context) {
	rs, err := h.Svc.ListActive(c.Request.Context())
	h.list(c, "active reservations", rs, err)
}

func (h *ReservationHandler) ListOverdue(c *gin.Context) {
	rs, err := h.Svc.ListOverdue(c.Request.Context())
	h.list(c, "overdue reservations", rs, err)
}

func (h *ReservationHandler) list(c *gin.Context, msg string, rs []application.ReservationResponse, err error) {
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, rs, msg, gin.H{"count": len(rs)})
}

func (h *ReservationHandler) ExportOverdueReport(c *gin.Context) {
	url, err := h.Svc.ExportOverdueReport(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "overdue report exported", nil)
}
