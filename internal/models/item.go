package models

import "time"

// PCPUpload registra cada planilha enviada manualmente pelo PCP.
// StoredAs é o nome físico (uuid) dentro de UPLOAD_PATH.
type PCPUpload struct {
	ID         uint   `gorm:"primaryKey"`
	Filename   string `gorm:"size:200;not null"`
	StoredAs   string `gorm:"size:64;not null"`
	UploadedBy uint   `gorm:"index"`
	CreatedAt  time.Time
}

// Item é a linha de rastreio secundária criada pelo fluxo de
// upload-e-mapeamento, separada do ItemStatus do dashboard.
type Item struct {
	ID             uint `gorm:"primaryKey"`
	ClienteID      uint `gorm:"index"`
	Cliente        Cliente
	Modelo         string `gorm:"size:120"`
	Quantidade     int
	Status         string `gorm:"size:50"`
	OrigemUploadID uint   `gorm:"index"`
	CriadoPor      uint
	CreatedAt      time.Time
}
