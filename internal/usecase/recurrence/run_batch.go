package recurrence

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	"github.com/BruksfildServices01/barber-recurrence/internal/httperr"
	"github.com/BruksfildServices01/barber-recurrence/internal/metrics"
	"github.com/BruksfildServices01/barber-recurrence/internal/models"
	"github.com/BruksfildServices01/barber-recurrence/internal/timezone"
)

// ======================================================
// USE CASE — rodada do batch de recorrência
// ======================================================

type Summary struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

type RunBatch struct {
	repo         domain.Repository
	guard        *domain.Guard
	materializer *MaterializeOccurrence
	log          zerolog.Logger

	// relógio injetável para os testes
	now func() time.Time
}

func NewRunBatch(
	repo domain.Repository,
	guard *domain.Guard,
	materializer *MaterializeOccurrence,
	log zerolog.Logger,
) *RunBatch {
	return &RunBatch{
		repo:         repo,
		guard:        guard,
		materializer: materializer,
		log:          log,
		now:          time.Now,
	}
}

// Execute processa todos os templates ativos uma vez (projeta → guarda →
// materializa), isolando falhas por template. Idempotente: rodar de novo
// em seguida só produz "already-generated".
//
// Erro de retorno apenas quando a listagem de templates falha; falhas
// individuais viram contadores.
func (uc *RunBatch) Execute(ctx context.Context) (Summary, error) {

	templates, err := uc.repo.ListActiveTemplates(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list active templates: %w", err)
	}

	var sum Summary

	for _, tpl := range templates {
		generated, reason, err := uc.processTemplate(ctx, tpl)

		switch {
		case err != nil:
			sum.Errors++
			metrics.RecurrenceErrors.Inc()
			uc.log.Warn().
				Err(err).
				Uint("template_id", tpl.ID).
				Uint("barbershop_id", tpl.BarbershopID).
				Msg("recurrence template failed")

		case generated:
			sum.Generated++
			metrics.RecurrenceGenerated.Inc()

		default:
			sum.Skipped++
			metrics.RecurrenceSkipped.WithLabelValues(string(reason)).Inc()
			uc.log.Debug().
				Uint("template_id", tpl.ID).
				Str("reason", string(reason)).
				Msg("recurrence template skipped")
		}
	}

	uc.log.Info().
		Int("generated", sum.Generated).
		Int("skipped", sum.Skipped).
		Int("errors", sum.Errors).
		Int("templates", len(templates)).
		Msg("recurrence batch finished")

	return sum, nil
}

// Motivos de pulo que não vêm da guarda
const (
	reasonExhausted domain.Reason = "exhausted"
	reasonRaceLost  domain.Reason = "already-generated"
)

func (uc *RunBatch) processTemplate(
	ctx context.Context,
	tpl models.RecurringTemplate,
) (generated bool, reason domain.Reason, err error) {

	// Nada vindo de um template pode derrubar a rodada
	defer func() {
		if r := recover(); r != nil {
			generated = false
			err = fmt.Errorf("panic processing template %d: %v", tpl.ID, r)
		}
	}()

	freq, err := domain.ParseFrequency(tpl.Frequency)
	if err != nil {
		// erro de configuração: cadastro com frequência inválida
		return false, "", fmt.Errorf("template %d: %w", tpl.ID, err)
	}

	// "Hoje" no calendário da barbearia dona do template
	shop, err := uc.repo.GetBarbershopByID(ctx, tpl.BarbershopID)
	if err != nil {
		return false, "", fmt.Errorf("load barbershop %d: %w", tpl.BarbershopID, err)
	}
	today := uc.now().In(timezone.Location(shop.Timezone))

	projected, ok := domain.ProjectNext(tpl, freq)
	if !ok {
		// série esgotada (EndDate ultrapassado): pulo, não erro
		return false, reasonExhausted, nil
	}

	decision, err := uc.guard.ShouldMaterialize(ctx, tpl, projected, today)
	if err != nil {
		return false, "", err
	}
	if !decision.Materialize {
		return false, decision.Reason, nil
	}

	if _, err := uc.materializer.Execute(ctx, tpl, projected); err != nil {
		if httperr.IsBusiness(err, "already_generated") {
			// perdeu a corrida para outra rodada concorrente
			return false, reasonRaceLost, nil
		}
		return false, "", err
	}

	return true, domain.ReasonEligible, nil
}
