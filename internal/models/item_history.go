package models

import "time"

// ItemHistory: toda transição de status de um Item gera exatamente
// uma linha aqui (status anterior, novo, quem, quando).
type ItemHistory struct {
	ID         uint   `gorm:"primaryKey"`
	ItemID     uint   `gorm:"index;not null"`
	FromStatus string `gorm:"size:50"`
	ToStatus   string `gorm:"size:50;not null"`
	ByUserID   uint
	Comment    string `gorm:"size:250"`
	CreatedAt  time.Time
}
