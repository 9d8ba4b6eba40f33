package recurrence

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-recurrence/internal/audit"
	domain "github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	infraRepo "github.com/BruksfildServices01/barber-recurrence/internal/infra/repository"
	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

// ======================================================
// HELPERS
// ======================================================

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:recurrence_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.BarberProduct{},
		&models.Client{},
		&models.Appointment{},
		&models.RecurringTemplate{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type fixture struct {
	db      *gorm.DB
	shop    models.Barbershop
	client  models.Client
	product models.BarberProduct
}

func newFixture(t *testing.T, plan string) *fixture {
	t.Helper()
	db := newTestDB(t)

	shop := models.Barbershop{Name: "Navalha de Ouro", Slug: "navalha", Timezone: "UTC", Plan: plan}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("seed shop: %v", err)
	}

	client := models.Client{BarbershopID: shop.ID, Name: "João", Phone: "11999990000"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}

	product := models.BarberProduct{BarbershopID: shop.ID, Name: "Corte", DurationMin: 30, Active: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	return &fixture{db: db, shop: shop, client: client, product: product}
}

func (f *fixture) template(t *testing.T, mut func(*models.RecurringTemplate)) models.RecurringTemplate {
	t.Helper()
	tpl := models.RecurringTemplate{
		BarbershopID:    f.shop.ID,
		ClientID:        f.client.ID,
		BarberProductID: f.product.ID,
		Frequency:       "weekly",
		TimeOfDay:       "14:00",
		StartDate:       date(2024, time.January, 1),
		Active:          true,
	}
	if mut != nil {
		mut(&tpl)
	}
	if err := f.db.Create(&tpl).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}
	return tpl
}

type stubAssigner struct {
	id     *uint
	called bool
}

func (s *stubAssigner) BestAvailable(
	_ context.Context,
	_ uint,
	_ uint,
	_ time.Time,
	_ int,
) (*uint, error) {
	s.called = true
	return s.id, nil
}

func newRunner(f *fixture, assigner domain.BarberAssigner, now time.Time) *RunBatch {
	repo := infraRepo.NewRecurrenceGormRepository(f.db)
	guard := domain.NewGuard(repo)

	materializer := NewMaterializeOccurrence(repo, assigner, audit.NewDispatcher(audit.New(f.db)))

	runner := NewRunBatch(repo, guard, materializer, zerolog.Nop())
	runner.now = func() time.Time { return now }
	return runner
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ======================================================
// TESTS
// ======================================================

func TestRunBatch_FirstOccurrenceOnStartDate(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	tpl := f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.Frequency = "monthly"
		tpl.StartDate = date(2024, time.January, 15)
	})

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{Generated: 1}) {
		t.Fatalf("expected {1 0 0}, got %+v", sum)
	}

	var ap models.Appointment
	if err := f.db.First(&ap).Error; err != nil {
		t.Fatalf("expected a generated appointment: %v", err)
	}

	wantStart := time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC)
	if !ap.StartTime.Equal(wantStart) {
		t.Fatalf("expected start %s, got %s", wantStart, ap.StartTime)
	}
	if !ap.EndTime.Equal(wantStart.Add(30 * time.Minute)) {
		t.Fatalf("expected 30min duration, got end %s", ap.EndTime)
	}
	if ap.Status != "confirmed" {
		t.Fatalf("expected status confirmed, got %q", ap.Status)
	}
	if ap.IsFitIn {
		t.Fatal("generated appointment must not be a fit-in")
	}
	if ap.OriginTemplateID == nil || *ap.OriginTemplateID != tpl.ID {
		t.Fatalf("expected origin template %d, got %v", tpl.ID, ap.OriginTemplateID)
	}
	if ap.ClientName != "João" || ap.ClientPhone != "11999990000" {
		t.Fatalf("expected denormalized client data, got %q / %q", ap.ClientName, ap.ClientPhone)
	}
	if ap.BarberID != nil {
		t.Fatalf("solo plan without preference must stay unassigned, got %v", ap.BarberID)
	}

	var reloaded models.RecurringTemplate
	if err := f.db.First(&reloaded, tpl.ID).Error; err != nil {
		t.Fatalf("reload template: %v", err)
	}
	if reloaded.LastGeneratedDate == nil || !sameDay(*reloaded.LastGeneratedDate, date(2024, time.January, 15)) {
		t.Fatalf("expected cursor 2024-01-15, got %v", reloaded.LastGeneratedDate)
	}
}

func TestRunBatch_SecondRunIsIdempotent(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.Frequency = "monthly"
		tpl.StartDate = date(2024, time.January, 15)
	})

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	if _, err := runner.Execute(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.Generated != 0 || sum.Skipped != 1 || sum.Errors != 0 {
		t.Fatalf("expected second run to only skip, got %+v", sum)
	}

	var count int64
	f.db.Model(&models.Appointment{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 appointment after two runs, got %d", count)
	}
}

func TestRunBatch_TooEarlySkips(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	// primeira ocorrência a 17 dias: fora da janela de 7
	f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.StartDate = date(2024, time.February, 1)
	})

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{Skipped: 1}) {
		t.Fatalf("expected {0 1 0}, got %+v", sum)
	}
}

func TestRunBatch_MissedDateIsNotBackfilled(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	cursor := date(2024, time.January, 1)
	tpl := f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.LastGeneratedDate = &cursor // próxima seria 08/jan, já passou
	})

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{Skipped: 1}) {
		t.Fatalf("expected {0 1 0}, got %+v", sum)
	}

	var count int64
	f.db.Model(&models.Appointment{}).Count(&count)
	if count != 0 {
		t.Fatalf("missed occurrence must not be backfilled, got %d appointments", count)
	}

	var reloaded models.RecurringTemplate
	f.db.First(&reloaded, tpl.ID)
	if !sameDay(*reloaded.LastGeneratedDate, cursor) {
		t.Fatalf("cursor must not move on a missed date, got %v", reloaded.LastGeneratedDate)
	}
}

func TestRunBatch_DuplicateIsSuppressed(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	cursor := date(2024, time.January, 8)
	tpl := f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.LastGeneratedDate = &cursor // próxima: 15/jan, dentro da janela
	})

	// ocorrência de 15/jan já existe (rodada anterior parcial)
	existing := models.Appointment{
		BarbershopID:     f.shop.ID,
		ClientID:         f.client.ID,
		BarberProductID:  f.product.ID,
		StartTime:        time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC),
		ScheduledOn:      date(2024, time.January, 15),
		Status:           "confirmed",
		OriginTemplateID: &tpl.ID,
	}
	if err := f.db.Create(&existing).Error; err != nil {
		t.Fatalf("seed existing appointment: %v", err)
	}

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{Skipped: 1}) {
		t.Fatalf("expected duplicate to be skipped, got %+v", sum)
	}

	var count int64
	f.db.Model(&models.Appointment{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected no second appointment, got %d", count)
	}
}

func TestRunBatch_ExhaustedSeriesSkips(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	cursor := date(2024, time.January, 8)
	end := date(2024, time.January, 10)
	f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.LastGeneratedDate = &cursor
		tpl.EndDate = &end // próxima (15/jan) ultrapassa o fim
	})

	runner := newRunner(f, nil, time.Date(2024, time.January, 9, 8, 0, 0, 0, time.UTC))

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{Skipped: 1}) {
		t.Fatalf("expected exhausted series to skip, got %+v", sum)
	}
}

func TestRunBatch_IsolatesTemplateFailures(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	// template quebrado: cliente inexistente
	broken := f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.ClientID = 9999
		tpl.StartDate = date(2024, time.January, 15)
	})

	// template saudável processado mesmo após a falha do anterior
	f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.StartDate = date(2024, time.January, 15)
	})

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Generated != 1 || sum.Errors != 1 {
		t.Fatalf("expected 1 generated + 1 error, got %+v", sum)
	}

	var reloaded models.RecurringTemplate
	f.db.First(&reloaded, broken.ID)
	if reloaded.LastGeneratedDate != nil {
		t.Fatal("failed template must not advance its cursor")
	}
}

func TestRunBatch_InvalidFrequencyCountsAsError(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.Frequency = "daily"
	})

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{Errors: 1}) {
		t.Fatalf("expected configuration error, got %+v", sum)
	}
}

func TestRunBatch_PreferredBarberWins(t *testing.T) {
	f := newFixture(t, models.PlanTeam)

	barber := models.User{BarbershopID: f.shop.ID, Name: "Rafael", Email: "rafael@navalha.com", PasswordHash: "x"}
	if err := f.db.Create(&barber).Error; err != nil {
		t.Fatalf("seed barber: %v", err)
	}

	f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.StartDate = date(2024, time.January, 15)
		tpl.PreferredBarberID = &barber.ID
	})

	assigner := &stubAssigner{}
	runner := newRunner(f, assigner, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	if _, err := runner.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assigner.called {
		t.Fatal("assigner must not be consulted when a preferred barber is set")
	}

	var ap models.Appointment
	f.db.First(&ap)
	if ap.BarberID == nil || *ap.BarberID != barber.ID {
		t.Fatalf("expected preferred barber %d, got %v", barber.ID, ap.BarberID)
	}
}

func TestRunBatch_AssignerFillsTeamPlan(t *testing.T) {
	f := newFixture(t, models.PlanTeam)

	f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.StartDate = date(2024, time.January, 15)
	})

	chosen := uint(42)
	assigner := &stubAssigner{id: &chosen}
	runner := newRunner(f, assigner, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	if _, err := runner.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !assigner.called {
		t.Fatal("expected the assigner to be consulted")
	}

	var ap models.Appointment
	f.db.First(&ap)
	if ap.BarberID == nil || *ap.BarberID != chosen {
		t.Fatalf("expected assigned barber %d, got %v", chosen, ap.BarberID)
	}
}

func TestRunBatch_InactiveTemplatesIgnored(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	f.template(t, func(tpl *models.RecurringTemplate) {
		tpl.StartDate = date(2024, time.January, 15)
		tpl.Active = false
	})

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	sum, err := runner.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{}) {
		t.Fatalf("inactive template must not appear in any counter, got %+v", sum)
	}
}

func TestRunBatch_FatalWhenTemplatesCannotBeListed(t *testing.T) {
	f := newFixture(t, models.PlanSolo)

	if err := f.db.Migrator().DropTable(&models.RecurringTemplate{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	runner := newRunner(f, nil, time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC))

	if _, err := runner.Execute(context.Background()); err == nil {
		t.Fatal("expected a fatal error when the template list cannot be loaded")
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
