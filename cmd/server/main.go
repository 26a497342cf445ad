package main

import (
	"strings"
	"time"

	"venttos-backend/internal/auth"
	"venttos-backend/internal/config"
	"venttos-backend/internal/dashboard"
	"venttos-backend/internal/database"
	"venttos-backend/internal/faturamento"
	"venttos-backend/internal/historico"
	"venttos-backend/internal/importer"
	"venttos-backend/internal/logistica"
	"venttos-backend/internal/models"
	"venttos-backend/internal/pcp"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)
	database.Init(cfg)

	// Importação da planilha compartilhada: mesma origem para o gatilho
	// manual e para a rodada automática, então a trava vale para os dois.
	imp := importer.New(
		importer.NewStore(database.DB),
		logger,
		time.Duration(cfg.ImportTimeoutSec)*time.Second,
	)
	src := planilhaSource(cfg)

	stopScheduler := imp.StartScheduler(src, time.Duration(cfg.ImportIntervalMin)*time.Minute)
	defer stopScheduler()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.Error().Err(err).Msg("erro inesperado")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado do servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Público
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/register", auth.RegisterHandler())

	// Autenticado
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Dashboard (todos os setores)
	protected.Get("/dashboard", dashboard.IndexHandler())
	protected.Post("/dashboard/update-status", dashboard.UpdateStatusHandler())

	// PCP
	pcpRoutes := protected.Group("/pcp")
	pcpRoutes.Use(auth.RequireRole(models.RolePCP, models.RoleAdmin))
	pcpRoutes.Post("/upload", pcp.UploadHandler(cfg))
	pcpRoutes.Post("/confirm-import", pcp.ConfirmImportHandler(cfg))
	pcpRoutes.Post("/import-now", pcp.ImportNowHandler(imp, src))

	// Logística
	logisticaRoutes := protected.Group("/logistica")
	logisticaRoutes.Use(auth.RequireRole(models.RoleLogistica, models.RoleAdmin))
	logisticaRoutes.Post("/itens/:id/status/:novo", logistica.AtualizarStatusHandler())

	// Faturamento
	faturamentoRoutes := protected.Group("/faturamento")
	faturamentoRoutes.Use(auth.RequireRole(models.RoleFaturamento, models.RoleAdmin))
	faturamentoRoutes.Post("/itens/:id/faturar", faturamento.MarcarFaturadoHandler())

	// Histórico (todos os setores)
	protected.Get("/itens/:id/historico", historico.ListItemHistoryHandler())

	logger.Info().Str("port", cfg.HTTPPort).Msg("servidor no ar")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal().Err(err).Msg("servidor caiu")
	}
}

// planilhaSource escolhe a variante de leitura da planilha compartilhada.
func planilhaSource(cfg *config.Config) importer.Source {
	if cfg.PlanilhaModo == "intervalo" {
		return &importer.RangeSource{
			Path:      cfg.PlanilhaPath,
			Aba:       cfg.PlanilhaAba,
			HeaderRow: cfg.PlanilhaHeaderRow,
			AnchorCol: cfg.PlanilhaAnchorCol,
			NumCols:   cfg.PlanilhaNumCols,
		}
	}
	return &importer.FileSource{
		Path:      cfg.PlanilhaPath,
		Aba:       cfg.PlanilhaAba,
		HeaderRow: 1,
	}
}
