package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-recurrence/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-recurrence/internal/domain/layout"
	"github.com/BruksfildServices01/barber-recurrence/internal/dto"
	"github.com/BruksfildServices01/barber-recurrence/internal/timezone"
)

// ======================================================
// USE CASE — layout do calendário diário
// ======================================================

type GetDayLayout struct {
	repo domain.Repository
}

func NewGetDayLayout(repo domain.Repository) *GetDayLayout {
	return &GetDayLayout{repo: repo}
}

const minutesPerDay = 24 * 60

// Execute monta a grade de um barbeiro em um dia: reduz cada agendamento
// a um intervalo em minutos do dia (fuso da barbearia), empacota em
// colunas e devolve as entradas já posicionadas, na ordem de início.
func (uc *GetDayLayout) Execute(
	ctx context.Context,
	barberID uint,
	barbershopID uint,
	date time.Time,
) ([]dto.DayLayoutEntryDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)

	dayStart := time.Date(
		date.Year(), date.Month(), date.Day(),
		0, 0, 0, 0,
		loc,
	)
	dayEnd := dayStart.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barberID,
		dayStart,
		dayEnd,
	)
	if err != nil {
		return nil, err
	}

	intervals := make([]layout.Interval, 0, len(appointments))
	for _, ap := range appointments {
		start := ap.StartTime.In(loc)
		end := ap.EndTime.In(loc)

		startMin := start.Hour()*60 + start.Minute()

		// agendamento varando a meia-noite é cortado na borda do dia
		endMin := minutesPerDay
		if end.Before(dayEnd) || end.Equal(dayEnd) {
			endMin = end.Hour()*60 + end.Minute()
			if endMin == 0 && !end.Equal(start) {
				endMin = minutesPerDay
			}
		}

		intervals = append(intervals, layout.Interval{
			AppointmentID: ap.ID,
			StartMinute:   startMin,
			EndMinute:     endMin,
		})
	}

	placements := layout.Pack(intervals)

	out := make([]dto.DayLayoutEntryDTO, 0, len(appointments))
	for i, ap := range appointments {
		out = append(out, dto.DayLayoutEntryDTO{
			ID:           ap.ID,
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			DurationMin:  int(ap.EndTime.Sub(ap.StartTime).Minutes()),
			Status:       ap.Status,
			ClientName:   ap.ClientName,
			ProductName:  ap.BarberProduct.Name,
			IsFitIn:      ap.IsFitIn,
			Column:       placements[i].Column,
			TotalColumns: placements[i].TotalColumns,
		})
	}

	return out, nil
}
