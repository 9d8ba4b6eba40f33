package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-recurrence/internal/httperr"
	"github.com/BruksfildServices01/barber-recurrence/internal/httpresp"
	"github.com/BruksfildServices01/barber-recurrence/internal/middleware"
	"github.com/BruksfildServices01/barber-recurrence/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-recurrence/internal/usecase/appointment"
)

// ======================================================
// HANDLER — grade diária do calendário
// ======================================================

type CalendarHandler struct {
	db        *gorm.DB
	dayLayout *ucAppointment.GetDayLayout
}

func NewCalendarHandler(
	db *gorm.DB,
	dayLayout *ucAppointment.GetDayLayout,
) *CalendarHandler {
	return &CalendarHandler{
		db:        db,
		dayLayout: dayLayout,
	}
}

// GET /calendar/day?date=2024-01-15&barber_id=3
// Sem barber_id, usa o usuário autenticado.
func (h *CalendarHandler) Day(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	date, err := parseDateInShop(&shop, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	barberID := userID
	if raw := c.Query("barber_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
			return
		}
		barberID = uint(parsed)
	}

	entries, err := h.dayLayout.Execute(
		c.Request.Context(),
		barberID,
		barbershopID,
		date,
	)
	if err != nil {
		httperr.Internal(c, "day_layout_failed", "Erro ao montar o calendário.")
		return
	}

	httpresp.List(c, entries)
}
