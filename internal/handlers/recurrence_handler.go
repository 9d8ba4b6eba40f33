package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-recurrence/internal/httperr"
	ucRecurrence "github.com/BruksfildServices01/barber-recurrence/internal/usecase/recurrence"
)

// ======================================================
// HANDLER — disparo manual do batch
// ======================================================

// O gatilho normal é o binário cmd/recurrencejob (cron diário); este
// endpoint existe para operação manual pelo painel.
type RecurrenceHandler struct {
	runBatch *ucRecurrence.RunBatch
}

func NewRecurrenceHandler(runBatch *ucRecurrence.RunBatch) *RecurrenceHandler {
	return &RecurrenceHandler{runBatch: runBatch}
}

// POST /recurrence/run
// Falhas individuais de template viram contadores; 500 só quando nem a
// listagem de templates funcionou.
func (h *RecurrenceHandler) Run(c *gin.Context) {
	summary, err := h.runBatch.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "recurrence_run_failed", "Erro ao executar a recorrência.")
		return
	}

	c.JSON(200, summary)
}
