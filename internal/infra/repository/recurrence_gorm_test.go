package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.Client{},
		&models.BarberProduct{},
		&models.Appointment{},
		&models.RecurringTemplate{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedTemplate(t *testing.T, db *gorm.DB, active bool) models.RecurringTemplate {
	t.Helper()
	tpl := models.RecurringTemplate{
		BarbershopID:    1,
		ClientID:        1,
		BarberProductID: 1,
		Frequency:       "weekly",
		TimeOfDay:       "10:00",
		StartDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Active:          active,
	}
	if err := db.Create(&tpl).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	return tpl
}

func TestListActiveTemplates_FiltersInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecurrenceGormRepository(db)

	active := seedTemplate(t, db, true)
	seedTemplate(t, db, false)

	got, err := repo.ListActiveTemplates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != active.ID {
		t.Fatalf("expected only template %d, got %+v", active.ID, got)
	}
}

func TestAdvanceTemplateCursor(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecurrenceGormRepository(db)

	tpl := seedTemplate(t, db, true)
	cursor := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	if err := repo.AdvanceTemplateCursor(context.Background(), tpl.ID, cursor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var reloaded models.RecurringTemplate
	if err := db.First(&reloaded, tpl.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.LastGeneratedDate == nil {
		t.Fatal("expected cursor to be set")
	}
	y, m, d := reloaded.LastGeneratedDate.Date()
	if y != 2024 || m != time.January || d != 15 {
		t.Fatalf("expected cursor 2024-01-15, got %v", reloaded.LastGeneratedDate)
	}
}

func TestExistsForTemplateOnDate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecurrenceGormRepository(db)

	tpl := seedTemplate(t, db, true)
	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	ap := models.Appointment{
		BarbershopID:     1,
		ClientID:         1,
		BarberProductID:  1,
		StartTime:        day.Add(14 * time.Hour),
		EndTime:          day.Add(14*time.Hour + 30*time.Minute),
		ScheduledOn:      day,
		Status:           "confirmed",
		OriginTemplateID: &tpl.ID,
	}
	if err := db.Create(&ap).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	ctx := context.Background()

	exists, err := repo.ExistsForTemplateOnDate(ctx, tpl.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected occurrence on 2024-01-15 to be found")
	}

	// fim da noite no fuso da barbearia: mesmo dia de calendário,
	// a duplicata ainda é encontrada
	sp := time.FixedZone("SP", -3*60*60)
	late := time.Date(2024, time.January, 15, 23, 0, 0, 0, sp)
	exists, err = repo.ExistsForTemplateOnDate(ctx, tpl.ID, late)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected a shop-local late-evening instant to match the same calendar day")
	}

	// dia vizinho: nada gerado
	exists, err = repo.ExistsForTemplateOnDate(ctx, tpl.ID, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("expected no occurrence on 2024-01-16")
	}

	// mesmo dia, outro template
	exists, err = repo.ExistsForTemplateOnDate(ctx, tpl.ID+1, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("occurrence must be scoped to its own template")
	}
}
