package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-recurrence/internal/audit"
	"github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	"github.com/BruksfildServices01/barber-recurrence/internal/httperr"
	"github.com/BruksfildServices01/barber-recurrence/internal/httpresp"
	"github.com/BruksfildServices01/barber-recurrence/internal/middleware"
	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type RecurringTemplateHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewRecurringTemplateHandler(
	db *gorm.DB,
	audit *audit.Dispatcher,
) *RecurringTemplateHandler {
	return &RecurringTemplateHandler{
		db:    db,
		audit: audit,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateRecurringTemplateRequest struct {
	ClientID          uint   `json:"client_id" binding:"required"`
	BarberProductID   uint   `json:"barber_product_id" binding:"required"`
	PreferredBarberID *uint  `json:"preferred_barber_id"`
	Frequency         string `json:"frequency" binding:"required"`
	DayOfWeek         int    `json:"day_of_week"`
	TimeOfDay         string `json:"time_of_day" binding:"required"`
	StartDate         string `json:"start_date" binding:"required"`
	EndDate           string `json:"end_date"`
}

type UpdateRecurringTemplateRequest struct {
	PreferredBarberID *uint   `json:"preferred_barber_id"`
	Frequency         *string `json:"frequency"`
	DayOfWeek         *int    `json:"day_of_week"`
	TimeOfDay         *string `json:"time_of_day"`
	EndDate           *string `json:"end_date"`
}

type ToggleRecurringTemplateRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *RecurringTemplateHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	var req CreateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if !recurrence.IsValidFrequency(req.Frequency) {
		httperr.BadRequest(c, "invalid_frequency", "Frequência inválida.")
		return
	}

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		httperr.BadRequest(c, "invalid_day_of_week", "Dia da semana inválido.")
		return
	}

	if _, err := time.Parse("15:04", req.TimeOfDay); err != nil {
		httperr.BadRequest(c, "invalid_time_of_day", "Horário inválido.")
		return
	}

	startDate, err := parseDateInShop(&shop, req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_date", "Data inicial inválida.")
		return
	}

	var endDate *time.Time
	if req.EndDate != "" {
		ed, err := parseDateInShop(&shop, req.EndDate)
		if err != nil || ed.Before(startDate) {
			httperr.BadRequest(c, "invalid_end_date", "Data final inválida.")
			return
		}
		endDate = &ed
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", req.ClientID, barbershopID).
		First(&client).Error; err != nil {
		httperr.BadRequest(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	var product models.BarberProduct
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", req.BarberProductID, barbershopID).
		First(&product).Error; err != nil {
		httperr.BadRequest(c, "product_not_found", "Serviço não encontrado.")
		return
	}

	tpl := models.RecurringTemplate{
		BarbershopID:      barbershopID,
		ClientID:          client.ID,
		BarberProductID:   product.ID,
		PreferredBarberID: req.PreferredBarberID,
		Frequency:         req.Frequency,
		DayOfWeek:         req.DayOfWeek,
		TimeOfDay:         req.TimeOfDay,
		StartDate:         startDate,
		EndDate:           endDate,
		Active:            true,
	}

	if err := h.db.Create(&tpl).Error; err != nil {
		httperr.Internal(c, "template_create_failed", "Erro ao criar recorrência.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &userID,
		Action:       "recurring_template_created",
		Entity:       "recurring_template",
		EntityID:     &tpl.ID,
	})

	c.JSON(201, tpl)
}

// ======================================================
// LIST
// ======================================================

func (h *RecurringTemplateHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var templates []models.RecurringTemplate
	if err := h.db.
		Preload("Client").
		Preload("BarberProduct").
		Where("barbershop_id = ?", barbershopID).
		Order("id ASC").
		Find(&templates).Error; err != nil {
		httperr.Internal(c, "template_list_failed", "Erro ao listar recorrências.")
		return
	}

	httpresp.List(c, templates)
}

// ======================================================
// UPDATE
// ======================================================

func (h *RecurringTemplateHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	var tpl models.RecurringTemplate
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&tpl).Error; err != nil {
		httperr.NotFound(c, "template_not_found", "Recorrência não encontrada.")
		return
	}

	var req UpdateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Frequency != nil {
		if !recurrence.IsValidFrequency(*req.Frequency) {
			httperr.BadRequest(c, "invalid_frequency", "Frequência inválida.")
			return
		}
		tpl.Frequency = *req.Frequency
	}

	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			httperr.BadRequest(c, "invalid_day_of_week", "Dia da semana inválido.")
			return
		}
		tpl.DayOfWeek = *req.DayOfWeek
	}

	if req.TimeOfDay != nil {
		if _, err := time.Parse("15:04", *req.TimeOfDay); err != nil {
			httperr.BadRequest(c, "invalid_time_of_day", "Horário inválido.")
			return
		}
		tpl.TimeOfDay = *req.TimeOfDay
	}

	if req.EndDate != nil {
		if *req.EndDate == "" {
			tpl.EndDate = nil
		} else {
			ed, err := parseDateInShop(&shop, *req.EndDate)
			if err != nil || ed.Before(tpl.StartDate) {
				httperr.BadRequest(c, "invalid_end_date", "Data final inválida.")
				return
			}
			tpl.EndDate = &ed
		}
	}

	if req.PreferredBarberID != nil {
		tpl.PreferredBarberID = req.PreferredBarberID
	}

	if err := h.db.Save(&tpl).Error; err != nil {
		httperr.Internal(c, "template_update_failed", "Erro ao atualizar recorrência.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &userID,
		Action:       "recurring_template_updated",
		Entity:       "recurring_template",
		EntityID:     &tpl.ID,
	})

	c.JSON(200, tpl)
}

// ======================================================
// TOGGLE (ativa / desativa)
// ======================================================

func (h *RecurringTemplateHandler) Toggle(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var tpl models.RecurringTemplate
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&tpl).Error; err != nil {
		httperr.NotFound(c, "template_not_found", "Recorrência não encontrada.")
		return
	}

	var req ToggleRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	tpl.Active = *req.Active
	if err := h.db.Save(&tpl).Error; err != nil {
		httperr.Internal(c, "template_update_failed", "Erro ao atualizar recorrência.")
		return
	}

	action := "recurring_template_deactivated"
	if tpl.Active {
		action = "recurring_template_activated"
	}

	h.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &userID,
		Action:       action,
		Entity:       "recurring_template",
		EntityID:     &tpl.ID,
	})

	c.JSON(200, tpl)
}
