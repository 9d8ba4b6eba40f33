package recurrence

import (
	"context"
	"time"
)

// BarberAssigner escolhe o barbeiro para uma ocorrência sem preferência
// fixa. Nulo = ninguém disponível; o agendamento fica no pool automático.
type BarberAssigner interface {
	BestAvailable(
		ctx context.Context,
		barbershopID uint,
		productID uint,
		scheduledAt time.Time,
		durationMin int,
	) (*uint, error)
}
