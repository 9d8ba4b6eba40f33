package assigner

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

// ======================================================
// ASSIGNER — barbeiro menos carregado
// ======================================================

// LeastLoaded implementa a distribuição automática dos planos "team":
// entre os barbeiros em expediente no horário pedido (almoço conta como
// fora) e sem conflito de agenda, escolhe o com menos atendimentos no dia.
type LeastLoaded struct {
	db *gorm.DB
}

func NewLeastLoaded(db *gorm.DB) *LeastLoaded {
	return &LeastLoaded{db: db}
}

func (a *LeastLoaded) BestAvailable(
	ctx context.Context,
	barbershopID uint,
	productID uint,
	scheduledAt time.Time,
	durationMin int,
) (*uint, error) {

	end := scheduledAt.Add(time.Duration(durationMin) * time.Minute)

	var barbers []models.User
	if err := a.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}

	var bestID *uint
	bestLoad := -1

	for i := range barbers {
		b := barbers[i]

		ok, err := a.isWorking(ctx, b.ID, scheduledAt, end)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		free, err := a.isFree(ctx, b.ID, scheduledAt, end)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}

		load, err := a.dayLoad(ctx, b.ID, scheduledAt)
		if err != nil {
			return nil, err
		}

		if bestLoad < 0 || load < bestLoad {
			id := b.ID
			bestID = &id
			bestLoad = load
		}
	}

	// nil = ninguém disponível; ocorrência vai para o pool sem barbeiro
	return bestID, nil
}

// --------------------------------------------------
// Expediente (incluindo pausa de almoço)
// --------------------------------------------------

func (a *LeastLoaded) isWorking(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	weekday := int(start.Weekday())
	loc := start.Location()

	var wh models.WorkingHours
	if err := a.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		First(&wh).Error; err != nil {
		return false, nil
	}

	if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false, nil
	}

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			start.Year(), start.Month(), start.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	workStart := parseHM(wh.StartTime)
	workEnd := parseHM(wh.EndTime)

	if start.Before(workStart) || end.After(workEnd) {
		return false, nil
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		lunchStart := parseHM(wh.LunchStart)
		lunchEnd := parseHM(wh.LunchEnd)
		if start.Before(lunchEnd) && end.After(lunchStart) {
			return false, nil
		}
	}

	return true, nil
}

// --------------------------------------------------
// Conflito e carga do dia
// --------------------------------------------------

func (a *LeastLoaded) isFree(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"barber_id = ? AND status = 'confirmed' AND start_time < ? AND end_time > ?",
			barberID,
			end,
			start,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count == 0, nil
}

func (a *LeastLoaded) dayLoad(
	ctx context.Context,
	barberID uint,
	at time.Time,
) (int, error) {

	dayStart := time.Date(
		at.Year(), at.Month(), at.Day(),
		0, 0, 0, 0,
		at.Location(),
	)
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"barber_id = ? AND status = 'confirmed' AND start_time >= ? AND start_time < ?",
			barberID,
			dayStart,
			dayEnd,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

// Compile-time check
var _ domain.BarberAssigner = (*LeastLoaded)(nil)
