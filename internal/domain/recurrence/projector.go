package recurrence

import (
	"time"

	"github.com/BruksfildServices01/barber-recurrence/internal/models"
)

// ===============================
// Projeção da próxima ocorrência
// ===============================

// ProjectNext calcula o próximo dia candidato de um template.
// Sem cursor, o candidato é o próprio StartDate (primeira ocorrência);
// com cursor, um período à frente dele. Função pura: comparar o
// candidato com o relógio é papel da guarda.
//
// Retorna ok=false quando a série terminou (EndDate ultrapassado).
func ProjectNext(
	tpl models.RecurringTemplate,
	freq Frequency,
) (time.Time, bool) {

	var next time.Time

	if tpl.LastGeneratedDate == nil {
		next = DateOnly(tpl.StartDate)
	} else {
		base := DateOnly(*tpl.LastGeneratedDate)

		switch freq {
		case FrequencyWeekly:
			next = base.AddDate(0, 0, 7)
		case FrequencyBiweekly:
			next = base.AddDate(0, 0, 14)
		case FrequencyMonthly:
			next = addMonthClamped(base)
		default:
			return time.Time{}, false
		}
	}

	if tpl.EndDate != nil && next.After(DateOnly(*tpl.EndDate)) {
		return time.Time{}, false
	}

	return next, true
}

// addMonthClamped soma um mês preservando o dia; quando o mês destino é
// mais curto, fixa no último dia (31/jan → 29/fev, nunca "31 de fevereiro").
// time.AddDate normaliza (31/jan + 1 mês = 2/mar), por isso o cálculo manual.
func addMonthClamped(d time.Time) time.Time {
	y, m, day := d.Date()

	firstOfNext := time.Date(y, m+1, 1, 0, 0, 0, 0, d.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()

	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, d.Location())
}

// DateOnly descarta o horário, mantendo só o dia no fuso recebido.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CalendarDate normaliza um instante para a meia-noite UTC do seu dia
// de calendário: a forma canônica da coluna scheduled_on, estável entre
// fusos e entre drivers.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween conta dias de calendário entre dois dias (b - a).
// Compara componentes de data, nunca instantes: imune a DST e a fusos distintos.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	return int(ub.Sub(ua).Hours() / 24)
}
