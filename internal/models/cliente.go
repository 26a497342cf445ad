package models

import "time"

// Cliente é criado na primeira vez que o nome aparece na importação.
// Nunca é atualizado nem removido; o match é por nome exato.
type Cliente struct {
	ID        uint   `gorm:"primaryKey"`
	Nome      string `gorm:"size:120;not null;uniqueIndex"`
	CreatedAt time.Time
}
