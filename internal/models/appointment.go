package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint       `json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barbershop"`

	// Nulo = sem barbeiro atribuído (pool automático)
	BarberID *uint `json:"barber_id"`
	Barber   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	// Desnormalizado para exibição no calendário sem preload
	ClientName  string `gorm:"size:100" json:"client_name"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`

	BarberProductID uint          `json:"barber_product_id"`
	BarberProduct   BarberProduct `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber_product"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Dia (calendário da barbearia) do StartTime. Junto com OriginTemplateID
	// garante no máximo uma ocorrência gerada por template por dia.
	ScheduledOn time.Time `gorm:"type:date;uniqueIndex:uniq_template_day" json:"scheduled_on"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	// Template recorrente que gerou este agendamento; nulo = criado manualmente
	OriginTemplateID *uint `gorm:"uniqueIndex:uniq_template_day" json:"origin_template_id"`

	// Encaixe manual fora da grade (override do atendente)
	IsFitIn bool `gorm:"default:false" json:"is_fit_in"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
