package logistica

import (
	"venttos-backend/internal/auth"
	"venttos-backend/internal/database"
	"venttos-backend/internal/historico"
	"venttos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/logistica/itens/:id/status/:novo
// Transição de status feita pela logística; sempre gera histórico.
func AtualizarStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		itemID, err := c.ParamsInt("id")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de item inválido")
		}

		novoStatus := c.Params("novo")
		if novoStatus == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Informe o novo status")
		}

		var item models.Item
		if err := database.DB.First(&item, itemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		if err := historico.RegistrarTransicao(database.DB, &item, novoStatus, userID, ""); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar o status")
		}

		return c.JSON(fiber.Map{
			"ok":          true,
			"novo_status": item.Status,
		})
	}
}
