package recurrence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-recurrence/internal/audit"
	apdomain "github.com/BruksfildServices01/barber-recurrence/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	"github.com/BruksfildServices01/barber-recurrence/internal/httperr"
	"github.com/BruksfildServices01/barber-recurrence/internal/models"
	"github.com/BruksfildServices01/barber-recurrence/internal/timezone"
)

// ======================================================
// USE CASE — materializa uma ocorrência projetada
// ======================================================

type MaterializeOccurrence struct {
	repo     domain.Repository
	assigner domain.BarberAssigner
	audit    *audit.Dispatcher
}

func NewMaterializeOccurrence(
	repo domain.Repository,
	assigner domain.BarberAssigner,
	audit *audit.Dispatcher,
) *MaterializeOccurrence {
	return &MaterializeOccurrence{
		repo:     repo,
		assigner: assigner,
		audit:    audit,
	}
}

// Execute cria o Appointment concreto para tpl no dia informado e, só
// depois do insert, avança o cursor do template. Em qualquer falha o
// cursor fica parado e a mesma data é reprocessada na próxima rodada.
func (uc *MaterializeOccurrence) Execute(
	ctx context.Context,
	tpl models.RecurringTemplate,
	date time.Time,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Barbearia (fuso + plano)
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, tpl.BarbershopID)
	if err != nil {
		return nil, fmt.Errorf("load barbershop %d: %w", tpl.BarbershopID, err)
	}

	// --------------------------------------------------
	// 2️⃣ Cliente (nome/telefone desnormalizados)
	// --------------------------------------------------
	client, err := uc.repo.GetClientByID(ctx, tpl.BarbershopID, tpl.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	// --------------------------------------------------
	// 3️⃣ Serviço (duração)
	// --------------------------------------------------
	product, err := uc.repo.GetProduct(ctx, tpl.BarbershopID, tpl.BarberProductID)
	if err != nil {
		return nil, httperr.ErrBusiness("product_not_found")
	}

	// --------------------------------------------------
	// 4️⃣ Dia + horário no fuso da barbearia
	// --------------------------------------------------
	loc := timezone.Location(shop.Timezone)

	hm, err := time.Parse("15:04", tpl.TimeOfDay)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_time_of_day")
	}

	start := time.Date(
		date.Year(), date.Month(), date.Day(),
		hm.Hour(), hm.Minute(), 0, 0,
		loc,
	)
	end := start.Add(time.Duration(product.DurationMin) * time.Minute)

	// --------------------------------------------------
	// 5️⃣ Barbeiro: preferido > distribuição automática > pool
	// --------------------------------------------------
	barberID := tpl.PreferredBarberID
	if barberID == nil && shop.MultiBarber() && uc.assigner != nil {
		barberID, err = uc.assigner.BestAvailable(
			ctx,
			tpl.BarbershopID,
			tpl.BarberProductID,
			start,
			product.DurationMin,
		)
		if err != nil {
			return nil, fmt.Errorf("assign barber: %w", err)
		}
	}

	// --------------------------------------------------
	// 6️⃣ Insert do agendamento gerado
	// --------------------------------------------------
	ap := &models.Appointment{
		BarbershopID:     tpl.BarbershopID,
		BarberID:         barberID,
		ClientID:         client.ID,
		ClientName:       client.Name,
		ClientPhone:      client.Phone,
		BarberProductID:  product.ID,
		StartTime:        start,
		EndTime:          end,
		ScheduledOn:      domain.CalendarDate(date),
		Status:           string(apdomain.InitialStatus()),
		OriginTemplateID: &tpl.ID,
		IsFitIn:          false,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		// Corrida entre duas rodadas simultâneas: o índice único
		// (origin_template_id, scheduled_on) transforma o segundo
		// insert em "já gerado", não em erro.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, httperr.ErrBusiness("already_generated")
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	// --------------------------------------------------
	// 7️⃣ Cursor — somente após insert bem-sucedido
	// --------------------------------------------------
	if err := uc.repo.AdvanceTemplateCursor(ctx, tpl.ID, domain.CalendarDate(date)); err != nil {
		return nil, fmt.Errorf("advance cursor for template %d: %w", tpl.ID, err)
	}

	// --------------------------------------------------
	// 8️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BarbershopID: tpl.BarbershopID,
		Action:       "recurring_appointment_generated",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"template_id":  tpl.ID,
			"scheduled_on": domain.CalendarDate(date).Format("2006-01-02"),
		},
	})

	return ap, nil
}
