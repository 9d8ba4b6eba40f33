package recurrence

import "errors"

// ===============================
// Frequency
// ===============================

// Frequency é um conjunto fechado: um valor desconhecido vindo do banco
// falha em ParseFrequency e nunca chega ao projetor.
type Frequency int

const (
	FrequencyWeekly Frequency = iota
	FrequencyBiweekly
	FrequencyMonthly
)

const (
	freqWeekly   = "weekly"
	freqBiweekly = "biweekly"
	freqMonthly  = "monthly"
)

var ErrInvalidFrequency = errors.New("recurrence: invalid frequency")

func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case freqWeekly:
		return FrequencyWeekly, nil
	case freqBiweekly:
		return FrequencyBiweekly, nil
	case freqMonthly:
		return FrequencyMonthly, nil
	default:
		return 0, ErrInvalidFrequency
	}
}

func (f Frequency) String() string {
	switch f {
	case FrequencyWeekly:
		return freqWeekly
	case FrequencyBiweekly:
		return freqBiweekly
	case FrequencyMonthly:
		return freqMonthly
	default:
		return "unknown"
	}
}

func IsValidFrequency(s string) bool {
	_, err := ParseFrequency(s)
	return err == nil
}
