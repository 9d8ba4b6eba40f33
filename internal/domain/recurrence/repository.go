package recurrence

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

type Repository interface {
	// -------- Templates --------
	ListActiveTemplates(
		ctx context.Context,
	) ([]models.RecurringTemplate, error)

	// Avança o cursor após materialização bem-sucedida — única mutação
	// de LastGeneratedDate fora do painel administrativo.
	AdvanceTemplateCursor(
		ctx context.Context,
		templateID uint,
		date time.Time,
	) error

	// -------- Duplicata --------
	ExistsForTemplateOnDate(
		ctx context.Context,
		templateID uint,
		date time.Time,
	) (bool, error)

	// -------- Colaboradores (barbearia / cliente / serviço) --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetClientByID(
		ctx context.Context,
		barbershopID uint,
		clientID uint,
	) (*models.Client, error)

	GetProduct(
		ctx context.Context,
		barbershopID uint,
		productID uint,
	) (*models.BarberProduct, error)

	// -------- Agendamento gerado --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error
}
