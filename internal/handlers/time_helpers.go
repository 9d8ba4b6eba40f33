package handlers

import (
	"time"

	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

const defaultTimezone = "America/Sao_Paulo"

// --------------------------------------------------
// FASE 2 — Timezone centralizado por barbearia
// --------------------------------------------------

// resolve o timezone oficial da barbearia
func locationFromShop(shop *models.Barbershop) *time.Location {
	if shop != nil && shop.Timezone != "" {
		if loc, err := time.LoadLocation(shop.Timezone); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

func parseDateInShop(shop *models.Barbershop, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromShop(shop),
	)
}
