package models

import "time"

// Template de agendamento recorrente: o pedido fixo de um cliente
// ("toda segunda às 9h com o Rafael"). O batch diário projeta a próxima
// ocorrência e materializa o Appointment concreto.
type RecurringTemplate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint       `gorm:"index" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barbershop"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	BarberProductID uint          `json:"barber_product_id"`
	BarberProduct   BarberProduct `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber_product"`

	// Nulo = qualquer barbeiro disponível
	PreferredBarberID *uint `json:"preferred_barber_id"`
	PreferredBarber   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"preferred_barber"`

	// "weekly" | "biweekly" | "monthly" (recurrence.ParseFrequency)
	Frequency string `gorm:"size:20;not null" json:"frequency"`

	// 0=domingo … 6=sábado; relevante apenas para weekly/biweekly
	DayOfWeek int `json:"day_of_week"`

	// "15:04" no fuso da barbearia
	TimeOfDay string `gorm:"size:5;not null" json:"time_of_day"`

	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`

	// Sem tag default: gorm omitiria o false na criação e o banco
	// gravaria true. Quem cria o template define Active explicitamente.
	Active bool `gorm:"index" json:"active"`

	// Cursor: dia da última ocorrência materializada.
	// Invariante: StartDate <= LastGeneratedDate <= EndDate (quando presentes).
	LastGeneratedDate *time.Time `gorm:"type:date" json:"last_generated_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
