package models

import "time"

const (
	PlanSolo = "solo"
	PlanTeam = "team"
)

type Barbershop struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Name              string `gorm:"size:100;not null" json:"name"`
	Slug              string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone             string `gorm:"size:20" json:"phone"`
	Address           string `gorm:"size:255" json:"address"`
	Timezone          string `gorm:"size:50;default:'America/Sao_Paulo'" json:"timezone"`
	Plan              string `gorm:"size:20;default:'solo'" json:"plan"`
	MinAdvanceMinutes int    `gorm:"default:120" json:"min_advance_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Planos "team" permitem distribuir agendamentos entre vários barbeiros
func (b *Barbershop) MultiBarber() bool {
	return b.Plan == PlanTeam
}
