package historico

import (
	"fmt"

	"venttos-backend/internal/models"

	"gorm.io/gorm"
)

// RegistrarTransicao troca o status de um Item e grava exatamente uma linha
// de histórico (status anterior, novo, quem mexeu, comentário opcional).
// As duas escritas vão na mesma transação.
func RegistrarTransicao(db *gorm.DB, item *models.Item, novoStatus string, byUserID uint, comment string) error {
	anterior := item.Status

	return db.Transaction(func(tx *gorm.DB) error {
		item.Status = novoStatus
		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("não foi possível atualizar o item: %w", err)
		}

		hist := models.ItemHistory{
			ItemID:     item.ID,
			FromStatus: anterior,
			ToStatus:   novoStatus,
			ByUserID:   byUserID,
			Comment:    comment,
		}
		if err := tx.Create(&hist).Error; err != nil {
			return fmt.Errorf("não foi possível gravar o histórico: %w", err)
		}
		return nil
	})
}
