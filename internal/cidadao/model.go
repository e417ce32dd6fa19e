package cidadao

import (
	"strings"
	"time"
)

// Cidadao representa um munícipe atendido pelo gabinete. A gestão do
// cadastro pertence a outro módulo; aqui a coleção é somente leitura.
type Cidadao struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Email     *string   `json:"email,omitempty"`
	Telefone  *string   `json:"telefone,omitempty"`
	Bairro    *string   `json:"bairro,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CriadoEm  time.Time `json:"criado_em"`
}

// TemCoordenadas informa se o cidadão possui geolocalização completa.
func (c Cidadao) TemCoordenadas() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// CadastradoNoDia informa se o cadastro ocorreu no mesmo dia-calendário
// do instante de referência.
func (c Cidadao) CadastradoNoDia(ref time.Time) bool {
	ano, mes, dia := c.CriadoEm.Date()
	anoRef, mesRef, diaRef := ref.Date()
	return ano == anoRef && mes == mesRef && dia == diaRef
}

// Filtrar devolve os cidadãos que casam com o termo de busca: substring
// (caso-insensível) em nome, email ou telefone, ou o ID exato. O ramo de
// ID é exato de propósito, para navegação "pular para este registro" sem
// colisão de prefixos parciais.
func Filtrar(cidadaos []Cidadao, termo string) []Cidadao {
	termo = strings.ToLower(strings.TrimSpace(termo))
	if termo == "" {
		return cidadaos
	}

	out := make([]Cidadao, 0, len(cidadaos))
	for _, c := range cidadaos {
		if strings.EqualFold(c.ID, termo) {
			out = append(out, c)
			continue
		}
		if strings.Contains(strings.ToLower(c.Nome), termo) {
			out = append(out, c)
			continue
		}
		if c.Email != nil && strings.Contains(strings.ToLower(*c.Email), termo) {
			out = append(out, c)
			continue
		}
		if c.Telefone != nil && strings.Contains(strings.ToLower(*c.Telefone), termo) {
			out = append(out, c)
		}
	}
	return out
}
