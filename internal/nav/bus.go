package nav

import "sync"

// Foco é o comando tipado de foco entre vistas. Os campos DemandaID e
// CidadaoID existem só para compatibilidade com emissores antigos e são
// normalizados para ID/Tipo antes do despacho.
type Foco struct {
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
	Tipo string   `json:"tipo,omitempty"`
	ID   string   `json:"id,omitempty"`

	DemandaID string `json:"demandaId,omitempty"`
	CidadaoID string `json:"cidadaoId,omitempty"`
}

// TemCoordenadas indica se o pedido carrega um ponto de mapa.
func (f Foco) TemCoordenadas() bool {
	return f.Lat != nil && f.Lon != nil
}

// NormalizarFoco converte os campos legados para a forma {ID, Tipo}.
func NormalizarFoco(f Foco) Foco {
	if f.ID == "" && f.DemandaID != "" {
		f.ID = f.DemandaID
		f.Tipo = "demanda"
	}
	if f.ID == "" && f.CidadaoID != "" {
		f.ID = f.CidadaoID
		f.Tipo = "cidadao"
	}
	f.DemandaID = ""
	f.CidadaoID = ""
	if f.Tipo == "" {
		f.Tipo = "demanda"
	}
	return f
}

// Bus despacha pedidos de foco para os handlers registrados. Sinal
// assíncrono e sem resposta: quem publica não espera o tratamento.
type Bus struct {
	mu       sync.RWMutex
	handlers []func(Foco)
}

// NewBus cria bus vazio.
func NewBus() *Bus {
	return &Bus{}
}

// Registrar adiciona um handler de foco.
func (b *Bus) Registrar(h func(Foco)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publicar normaliza o comando e o entrega a todos os handlers em
// goroutines próprias.
func (b *Bus) Publicar(f Foco) {
	f = NormalizarFoco(f)

	b.mu.RLock()
	handlers := make([]func(Foco), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		go h(f)
	}
}
