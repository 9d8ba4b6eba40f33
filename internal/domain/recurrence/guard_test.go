package recurrence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

type stubChecker struct {
	exists bool
	err    error

	gotTemplateID uint
	gotDate       time.Time
}

func (s *stubChecker) ExistsForTemplateOnDate(
	_ context.Context,
	templateID uint,
	date time.Time,
) (bool, error) {
	s.gotTemplateID = templateID
	s.gotDate = date
	return s.exists, s.err
}

func TestGuard_LookaheadWindow(t *testing.T) {
	today := date(2024, time.January, 1)
	tpl := models.RecurringTemplate{ID: 7}

	tests := []struct {
		name      string
		projected time.Time
		exists    bool
		want      Decision
	}{
		{
			name:      "9 dias à frente ainda não gera",
			projected: date(2024, time.January, 10),
			want:      Decision{Reason: ReasonTooEarly},
		},
		{
			name:      "borda de 7 dias é inclusiva",
			projected: date(2024, time.January, 8),
			want:      Decision{Materialize: true, Reason: ReasonEligible},
		},
		{
			name:      "hoje (0 dias) é elegível",
			projected: date(2024, time.January, 1),
			want:      Decision{Materialize: true, Reason: ReasonEligible},
		},
		{
			name:      "data já passada vira gap, nunca backfill",
			projected: date(2023, time.December, 30),
			want:      Decision{Reason: ReasonMissed},
		},
		{
			name:      "duplicata dentro da janela",
			projected: date(2024, time.January, 8),
			exists:    true,
			want:      Decision{Reason: ReasonAlreadyGenerated},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			guard := NewGuard(&stubChecker{exists: tc.exists})

			got, err := guard.ShouldMaterialize(context.Background(), tpl, tc.projected, today)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestGuard_SkipsStoreWhenOutsideWindow(t *testing.T) {
	// too-early e missed decidem sem consultar o store
	store := &stubChecker{err: errors.New("store should not be called")}
	guard := NewGuard(store)

	today := date(2024, time.January, 1)
	tpl := models.RecurringTemplate{ID: 1}

	for _, projected := range []time.Time{
		date(2024, time.January, 20),
		date(2023, time.December, 1),
	} {
		if _, err := guard.ShouldMaterialize(context.Background(), tpl, projected, today); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestGuard_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	guard := NewGuard(&stubChecker{err: storeErr})

	today := date(2024, time.January, 1)
	tpl := models.RecurringTemplate{ID: 1}

	_, err := guard.ShouldMaterialize(context.Background(), tpl, date(2024, time.January, 3), today)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestGuard_QueriesStoreWithTemplateAndDate(t *testing.T) {
	store := &stubChecker{}
	guard := NewGuard(store)

	today := date(2024, time.January, 1)
	projected := date(2024, time.January, 5)
	tpl := models.RecurringTemplate{ID: 42}

	if _, err := guard.ShouldMaterialize(context.Background(), tpl, projected, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.gotTemplateID != 42 {
		t.Fatalf("expected template 42, got %d", store.gotTemplateID)
	}
	if !store.gotDate.Equal(projected) {
		t.Fatalf("expected date %s, got %s", projected, store.gotDate)
	}
}
