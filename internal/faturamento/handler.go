package faturamento

import (
	"venttos-backend/internal/auth"
	"venttos-backend/internal/database"
	"venttos-backend/internal/historico"
	"venttos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/faturamento/itens/:id/faturar
func MarcarFaturadoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		itemID, err := c.ParamsInt("id")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID de item inválido")
		}

		var item models.Item
		if err := database.DB.First(&item, itemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		if err := historico.RegistrarTransicao(database.DB, &item, models.StatusFaturado, userID, "Marcado como Faturado"); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao faturar o item")
		}

		return c.JSON(fiber.Map{
			"ok":          true,
			"novo_status": item.Status,
		})
	}
}
