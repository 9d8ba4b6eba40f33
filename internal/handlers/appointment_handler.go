package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-recurrence/internal/httperr"
	"github.com/BruksfildServices01/barber-recurrence/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-recurrence/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC   *ucAppointment.CreateAppointment
	cancelUC   *ucAppointment.CancelAppointment
	completeUC *ucAppointment.CompleteAppointment
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	completeUC *ucAppointment.CompleteAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:   createUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ProductID   uint   `json:"product_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Notes       string `json:"notes"`
	FitIn       bool   `json:"fit_in"`
}

// ======================================================
// CREATE (manual / encaixe)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarbershopID: barbershopID,
		BarberID:     barberID,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		ClientEmail:  req.ClientEmail,
		ProductID:    req.ProductID,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
		FitIn:        req.FitIn,
	})
	if err != nil {
		writeBusinessOrInternal(c, err)
		return
	}

	c.JSON(201, ap)
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), barbershopID, barberID, uint(id))
	if err != nil {
		writeBusinessOrInternal(c, err)
		return
	}

	c.JSON(200, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), barbershopID, barberID, uint(id))
	if err != nil {
		writeBusinessOrInternal(c, err)
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// HELPERS
// ======================================================

func writeBusinessOrInternal(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		httperr.BadRequest(c, be.Code, "Operação não permitida.")
		return
	}
	httperr.Internal(c, "internal_error", "Erro interno.")
}
