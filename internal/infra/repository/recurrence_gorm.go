package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

type RecurrenceGormRepository struct {
	db *gorm.DB
}

func NewRecurrenceGormRepository(db *gorm.DB) *RecurrenceGormRepository {
	return &RecurrenceGormRepository{db: db}
}

// --------------------------------------------------
// Templates
// --------------------------------------------------

func (r *RecurrenceGormRepository) ListActiveTemplates(
	ctx context.Context,
) ([]models.RecurringTemplate, error) {

	var templates []models.RecurringTemplate
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *RecurrenceGormRepository) AdvanceTemplateCursor(
	ctx context.Context,
	templateID uint,
	date time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.RecurringTemplate{}).
		Where("id = ?", templateID).
		Update("last_generated_date", date).Error
}

// --------------------------------------------------
// Duplicata (dia de calendário da ocorrência)
// --------------------------------------------------

// Consulta a mesma coluna que o índice único protege: scheduled_on na
// forma canônica (CalendarDate), independente do fuso do instante recebido.
func (r *RecurrenceGormRepository) ExistsForTemplateOnDate(
	ctx context.Context,
	templateID uint,
	date time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"origin_template_id = ? AND scheduled_on = ?",
			templateID,
			domain.CalendarDate(date),
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Colaboradores
// --------------------------------------------------

func (r *RecurrenceGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *RecurrenceGormRepository) GetClientByID(
	ctx context.Context,
	barbershopID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", clientID, barbershopID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *RecurrenceGormRepository) GetProduct(
	ctx context.Context,
	barbershopID uint,
	productID uint,
) (*models.BarberProduct, error) {

	var product models.BarberProduct
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", productID, barbershopID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// --------------------------------------------------
// Agendamento gerado
// --------------------------------------------------

func (r *RecurrenceGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// Compile-time check
var _ domain.Repository = (*RecurrenceGormRepository)(nil)
