package dashboard

import (
	"time"

	"venttos-backend/internal/auth"
	"venttos-backend/internal/database"
	"venttos-backend/internal/importer"
	"venttos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UpdateStatusRequest struct {
	Modelo string `json:"modelo"`
	Status string `json:"status"`
	Senha  string `json:"senha"`
	Data   string `json:"data"` // yyyy-mm-dd; vazio = hoje
}

// GET /api/dashboard?data=2025-01-31
// Itens do dia agrupados por cliente, como o quadro da fábrica.
func IndexHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := parseData(c.Query("data"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use aaaa-mm-dd")
		}

		var itens []models.ItemStatus
		if err := database.DB.Where("data = ?", data).Order("cliente, modelo").Find(&itens).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao consultar os itens")
		}

		grouped := make(map[string][]map[string]any)
		for i := range itens {
			grouped[itens[i].Cliente] = append(grouped[itens[i].Cliente], itens[i].ToDict())
		}

		return c.JSON(fiber.Map{
			"data":     data.Format("2006-01-02"),
			"clientes": grouped,
		})
	}
}

// POST /api/dashboard/update-status
// Troca de status exige reconfirmação da senha do próprio usuário.
// Senha errada é respondida diferente de item inexistente, para a tela
// conseguir distinguir os dois casos.
func UpdateStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Modelo == "" || body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Modelo e status são obrigatórios")
		}

		data, err := parseData(body.Data)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use aaaa-mm-dd")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuário não encontrado")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Senha)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Senha incorreta")
		}

		var item models.ItemStatus
		if err := database.DB.Where("modelo = ? AND data = ?", body.Modelo, data).First(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		// Só status, ator e hora; quantidade e cliente são da importação.
		item.Status = body.Status
		item.UsuarioUltimoUpdate = user.Username
		item.HoraUltimoUpdate = time.Now()

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar o item")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"hora":    item.HoraUltimoUpdate.Format("02/01/2006 15:04"),
			"usuario": item.UsuarioUltimoUpdate,
		})
	}
}

func parseData(s string) (time.Time, error) {
	if s == "" {
		return importer.DateOnly(time.Now()), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}
