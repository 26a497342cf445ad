package pcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"venttos-backend/internal/auth"
	"venttos-backend/internal/config"
	"venttos-backend/internal/database"
	"venttos-backend/internal/importer"
	"venttos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedExt = map[string]bool{".xls": true, ".xlsx": true}

// POST /api/pcp/upload
// Recebe a planilha, guarda o arquivo com nome uuid e devolve as colunas e
// uma prévia de 10 linhas para o PCP mapear os campos antes de confirmar.
func UploadHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Envie um arquivo Excel válido (.xls ou .xlsx)")
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedExt[ext] {
			return fiber.NewError(fiber.StatusBadRequest, "Envie um arquivo Excel válido (.xls ou .xlsx)")
		}

		if err := os.MkdirAll(cfg.UploadPath, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a pasta de uploads")
		}

		storedAs := uuid.NewString() + ext
		path := filepath.Join(cfg.UploadPath, storedAs)
		if err := c.SaveFile(fileHeader, path); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível salvar o arquivo")
		}

		src := &importer.FileSource{Path: path, HeaderRow: 1}
		tab, err := src.Read(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Não foi possível ler a planilha: "+err.Error())
		}

		upload := models.PCPUpload{
			Filename:   fileHeader.Filename,
			StoredAs:   storedAs,
			UploadedBy: userID,
		}
		if err := database.DB.Create(&upload).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar o upload")
		}

		preview := make([]map[string]any, 0, 10)
		for _, row := range tab.Linhas {
			if row == nil {
				continue
			}
			preview = append(preview, row)
			if len(preview) == 10 {
				break
			}
		}

		return c.JSON(fiber.Map{
			"upload_id": upload.ID,
			"columns":   tab.Colunas,
			"preview":   preview,
		})
	}
}

type ConfirmImportRequest struct {
	UploadID      uint   `json:"upload_id"`
	MapCliente    string `json:"map_cliente"`
	MapModelo     string `json:"map_modelo"`
	MapQuantidade string `json:"map_quantidade"`
	MapPronto     string `json:"map_pronto"`
}

// POST /api/pcp/confirm-import
// Relê o upload com o mapeamento escolhido e cria os Itens, cada um com a
// primeira linha de histórico. Tudo numa transação.
func ConfirmImportHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body ConfirmImportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.UploadID == 0 || body.MapCliente == "" || body.MapModelo == "" || body.MapQuantidade == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Informe upload_id e o mapeamento de cliente, modelo e quantidade")
		}

		var upload models.PCPUpload
		if err := database.DB.First(&upload, body.UploadID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Upload não encontrado")
		}

		src := &importer.FileSource{Path: filepath.Join(cfg.UploadPath, upload.StoredAs), HeaderRow: 1}
		if err := src.Check(); err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		tab, err := src.Read(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Não foi possível ler a planilha: "+err.Error())
		}

		created := 0
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, row := range tab.Linhas {
				if row == nil {
					continue
				}
				clienteNome := strings.TrimSpace(cellStr(row[body.MapCliente]))
				if clienteNome == "" {
					clienteNome = "Cliente não informado"
				}
				modelo := strings.TrimSpace(cellStr(row[body.MapModelo]))
				if modelo == "" {
					modelo = "N/A"
				}
				quantidade := importer.ParseQuantity(row[body.MapQuantidade])

				status := models.StatusRecebido
				if body.MapPronto != "" && importer.ParseReadyFlag(row[body.MapPronto]) {
					status = models.StatusPronto
				}

				var cliente models.Cliente
				if err := tx.Where("nome = ?", clienteNome).First(&cliente).Error; err != nil {
					cliente = models.Cliente{Nome: clienteNome}
					if err := tx.Create(&cliente).Error; err != nil {
						return err
					}
				}

				item := models.Item{
					ClienteID:      cliente.ID,
					Modelo:         modelo,
					Quantidade:     quantidade,
					Status:         status,
					OrigemUploadID: upload.ID,
					CriadoPor:      userID,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}

				hist := models.ItemHistory{
					ItemID:   item.ID,
					ToStatus: item.Status,
					ByUserID: userID,
				}
				if err := tx.Create(&hist).Error; err != nil {
					return err
				}
				created++
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao importar os itens: "+err.Error())
		}

		return c.JSON(fiber.Map{
			"created": created,
			"msg":     fmt.Sprintf("%d itens importados com sucesso!", created),
		})
	}
}

// POST /api/pcp/import-now
// Gatilho manual da importação da planilha compartilhada. A trava do
// Importador impede sobreposição com a rodada automática.
func ImportNowHandler(imp *importer.Importador, src importer.Source) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resumo := imp.Importar(context.Background(), src)
		return c.JSON(fiber.Map{
			"ok":     true,
			"resumo": resumo,
		})
	}
}

func cellStr(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
