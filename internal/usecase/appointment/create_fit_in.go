package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-recurrence/internal/audit"
	domain "github.com/BruksfildServices01/barber-recurrence/internal/domain/appointment"
	recdomain "github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	"github.com/BruksfildServices01/barber-recurrence/internal/httperr"
	"github.com/BruksfildServices01/barber-recurrence/internal/models"
	"github.com/BruksfildServices01/barber-recurrence/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uint
	BarberID     uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ProductID uint

	Date  string
	Time  string
	Notes string

	// Encaixe: ignora antecedência mínima e conflito de grade
	FitIn bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Barbearia
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone da barbearia
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(shop.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 3️⃣ Antecedência mínima (encaixe passa direto)
	// --------------------------------------------------
	if !in.FitIn {
		minAdvance := shop.MinAdvanceMinutes
		if minAdvance <= 0 {
			minAdvance = 120
		}

		now := timezone.NowIn(shop.Timezone)
		if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
			return nil, httperr.ErrBusiness("too_soon")
		}
	}

	// --------------------------------------------------
	// 4️⃣ Serviço
	// --------------------------------------------------
	product, err := uc.repo.GetProduct(
		ctx,
		in.BarbershopID,
		in.ProductID,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("product_not_found")
	}

	end := start.Add(time.Duration(product.DurationMin) * time.Minute)

	// --------------------------------------------------
	// 5️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BarbershopID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Conflito de horário (encaixe convive com sobreposição;
	//     o calendário mostra lado a lado via coluna)
	// --------------------------------------------------
	if !in.FitIn {
		if err := uc.repo.AssertNoTimeConflict(
			ctx,
			in.BarberID,
			start,
			end,
		); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 7️⃣ Criação do agendamento
	// --------------------------------------------------
	ap := &models.Appointment{
		BarbershopID:    in.BarbershopID,
		BarberID:        &in.BarberID,
		ClientID:        client.ID,
		ClientName:      client.Name,
		ClientPhone:     client.Phone,
		BarberProductID: product.ID,
		StartTime:       start,
		EndTime:         end,
		ScheduledOn:     recdomain.CalendarDate(start),
		Status:          string(domain.InitialStatus()),
		IsFitIn:         in.FitIn,
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8️⃣ Auditoria
	// --------------------------------------------------
	action := "appointment_created"
	if in.FitIn {
		action = "appointment_fit_in_created"
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       &in.BarberID,
		Action:       action,
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
