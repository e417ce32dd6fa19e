package dashboard

import (
	"github.com/gestaozabele/gabinete/internal/cidadao"
	"github.com/gestaozabele/gabinete/internal/demanda"
)

const (
	MarcadorDemanda = "demanda"
	MarcadorCidadao = "cidadao"
)

// Marcador projeta um registro geocodificado para o mapa. Derivado e
// somente leitura: o núcleo produz coordenadas, nunca renderiza.
type Marcador struct {
	ID        string  `json:"id"`
	Tipo      string  `json:"tipo"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Titulo    string  `json:"titulo"`
	Status    string  `json:"status,omitempty"`
	Bairro    string  `json:"bairro,omitempty"`
}

// Marcadores projeta as coleções filtradas em marcadores de mapa,
// descartando registros sem coordenadas.
func Marcadores(demandas []demanda.Demanda, cidadaos []cidadao.Cidadao) []Marcador {
	marcadores := make([]Marcador, 0, len(demandas)+len(cidadaos))

	for _, d := range demandas {
		if !d.TemCoordenadas() {
			continue
		}
		marcadores = append(marcadores, Marcador{
			ID:        d.ID,
			Tipo:      MarcadorDemanda,
			Latitude:  *d.Latitude,
			Longitude: *d.Longitude,
			Titulo:    d.Titulo,
			Status:    d.Status,
		})
	}

	for _, c := range cidadaos {
		if !c.TemCoordenadas() {
			continue
		}
		m := Marcador{
			ID:        c.ID,
			Tipo:      MarcadorCidadao,
			Latitude:  *c.Latitude,
			Longitude: *c.Longitude,
			Titulo:    c.Nome,
		}
		if c.Bairro != nil {
			m.Bairro = *c.Bairro
		}
		marcadores = append(marcadores, m)
	}

	return marcadores
}
