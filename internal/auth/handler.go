package auth

import (
	"strings"

	"venttos-backend/internal/config"
	"venttos-backend/internal/database"
	"venttos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Setor string `json:"setor"` // pcp, logistica, faturamento, admin
	Senha string `json:"senha"`
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		var user models.User
		if err := database.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuário ou senha incorretos")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuário ou senha incorretos")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":       user.ID,
				"nome":     user.FullName,
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}

func RegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		setor := models.UserRole(strings.TrimSpace(strings.ToLower(body.Setor)))

		if body.Nome == "" || body.Senha == "" || setor == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome, setor e senha são obrigatórios")
		}

		switch setor {
		case models.RolePCP, models.RoleLogistica, models.RoleFaturamento, models.RoleAdmin:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Setor inválido")
		}

		username := MakeUsername(body.Nome, string(setor))
		if username == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome inválido")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Usuário já existente")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Senha), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a senha")
		}

		user := models.User{
			FullName:     body.Nome,
			Username:     username,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         setor,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o usuário")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		return c.JSON(fiber.Map{
			"user_id":  user.ID,
			"nome":     user.FullName,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		})
	}
}
