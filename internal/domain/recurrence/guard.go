package recurrence

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

// ===============================
// Guarda de geração
// ===============================

// Janela de antecedência: ocorrências a até 7 dias são elegíveis (inclusivo).
const LookaheadDays = 7

type Reason string

const (
	ReasonEligible         Reason = "eligible"
	ReasonTooEarly         Reason = "too-early"
	ReasonMissed           Reason = "missed"
	ReasonAlreadyGenerated Reason = "already-generated"
)

type Decision struct {
	Materialize bool
	Reason      Reason
}

// Guard decide se uma data projetada deve virar agendamento agora.
// A checagem de duplicata é uma leitura simples; o índice único
// (origin_template_id, scheduled_on) cobre a corrida entre rodadas.
type Guard struct {
	store DuplicateChecker
}

type DuplicateChecker interface {
	ExistsForTemplateOnDate(
		ctx context.Context,
		templateID uint,
		date time.Time,
	) (bool, error)
}

func NewGuard(store DuplicateChecker) *Guard {
	return &Guard{store: store}
}

func (g *Guard) ShouldMaterialize(
	ctx context.Context,
	tpl models.RecurringTemplate,
	projected time.Time,
	today time.Time,
) (Decision, error) {

	daysUntil := DaysBetween(today, projected)

	if daysUntil > LookaheadDays {
		return Decision{Reason: ReasonTooEarly}, nil
	}

	// Data já passou sem ser gerada: registrada, nunca re-gerada retroativamente
	if daysUntil < 0 {
		return Decision{Reason: ReasonMissed}, nil
	}

	exists, err := g.store.ExistsForTemplateOnDate(ctx, tpl.ID, projected)
	if err != nil {
		return Decision{}, err
	}
	if exists {
		return Decision{Reason: ReasonAlreadyGenerated}, nil
	}

	return Decision{Materialize: true, Reason: ReasonEligible}, nil
}
