package models

import "time"

// Status padrão aplicados pela importação. A atualização manual aceita
// qualquer rótulo livre além destes.
const (
	StatusRecebido = "Recebido"
	StatusPronto   = "Pronto"
	StatusFaturado = "Faturado"
)

// ItemStatus é a linha do dashboard: um registro por (modelo, data).
// Cliente fica desnormalizado como nome, igual à planilha de origem.
type ItemStatus struct {
	ID                  uint      `gorm:"primaryKey"`
	Cliente             string    `gorm:"size:200;not null"`
	Modelo              string    `gorm:"size:100;not null;uniqueIndex:idx_modelo_data"`
	Quantidade          int       `gorm:"not null"`
	Status              string    `gorm:"size:50;not null;default:Recebido"`
	UsuarioUltimoUpdate string    `gorm:"size:100"`
	HoraUltimoUpdate    time.Time
	Data                time.Time `gorm:"type:date;not null;uniqueIndex:idx_modelo_data"`
}

func (s *ItemStatus) ToDict() map[string]any {
	hora := ""
	if !s.HoraUltimoUpdate.IsZero() {
		hora = s.HoraUltimoUpdate.Format("02/01/2006 15:04")
	}
	return map[string]any{
		"cliente":    s.Cliente,
		"modelo":     s.Modelo,
		"quantidade": s.Quantidade,
		"status":     s.Status,
		"usuario":    s.UsuarioUltimoUpdate,
		"hora":       hora,
		"data":       s.Data.Format("2006-01-02"),
	}
}
