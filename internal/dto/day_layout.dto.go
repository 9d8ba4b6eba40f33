package dto

import "time"

// Entrada do calendário diário já posicionada em coluna: o front calcula
// largura = 1/total_columns e deslocamento = column/total_columns.
type DayLayoutEntryDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	ProductName string    `json:"product_name"`
	IsFitIn     bool      `json:"is_fit_in"`

	Column       int `json:"column"`
	TotalColumns int `json:"total_columns"`
}
