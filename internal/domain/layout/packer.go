package layout

import "sort"

// ===============================
// Empacotamento de colunas do dia
// ===============================
//
// Particionamento guloso de intervalos: agendamentos sobrepostos do mesmo
// dia são distribuídos no menor número possível de colunas paralelas.
// O front usa Column/TotalColumns para calcular largura e deslocamento.

// Intervalo [StartMinute, EndMinute) em minutos desde 00:00 do dia.
// Duração real, sem mínimo de exibição — arredondar é papel do front.
type Interval struct {
	AppointmentID uint
	StartMinute   int
	EndMinute     int
}

type Placement struct {
	Interval     Interval
	Column       int
	TotalColumns int
}

// Pack atribui colunas a cada intervalo. Ordena por início (estável:
// empates mantêm a ordem de inserção) e coloca cada intervalo na primeira
// coluna cujo último intervalo já terminou. Intervalos que apenas se
// encostam (fim == início) compartilham coluna.
//
// O resultado preserva a ordem do slice de entrada.
func Pack(intervals []Interval) []Placement {
	if len(intervals) == 0 {
		return []Placement{}
	}

	order := make([]int, len(intervals))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return intervals[order[a]].StartMinute < intervals[order[b]].StartMinute
	})

	// columnEnds[c] = fim do último intervalo colocado na coluna c
	var columnEnds []int
	columns := make([]int, len(intervals))

	for _, idx := range order {
		iv := intervals[idx]

		placed := false
		for c, end := range columnEnds {
			if end <= iv.StartMinute {
				columnEnds[c] = iv.EndMinute
				columns[idx] = c
				placed = true
				break
			}
		}

		if !placed {
			columnEnds = append(columnEnds, iv.EndMinute)
			columns[idx] = len(columnEnds) - 1
		}
	}

	total := len(columnEnds)

	out := make([]Placement, len(intervals))
	for i, iv := range intervals {
		out[i] = Placement{
			Interval:     iv,
			Column:       columns[i],
			TotalColumns: total,
		}
	}

	return out
}
