package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	UploadPath  string // Uploads do PCP ficam aqui
	LogLevel    string
	LogFile     string

	// Planilha compartilhada do PCP (unidade de rede em produção)
	PlanilhaPath      string
	PlanilhaAba       string
	PlanilhaModo      string // "arquivo" lê a aba inteira; "intervalo" lê o retângulo ancorado
	PlanilhaHeaderRow int    // Linha do cabeçalho (1-based); a planilha da fábrica usa a linha 6
	PlanilhaAnchorCol string // Coluna âncora do modo intervalo (a planilha da fábrica usa "B")
	PlanilhaNumCols   int    // Largura do retângulo no modo intervalo (B:H = 7 colunas)

	ImportIntervalMin int // Intervalo da importação automática em minutos
	ImportTimeoutSec  int // Timeout de cada rodada de importação (a planilha pode estar em rede)
}

func Load() *Config {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=venttos port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		UploadPath:        getEnv("UPLOAD_PATH", "./uploads"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", "logs/venttos-backend.log"),
		PlanilhaPath:      getEnv("PLANILHA_PATH", "./pcp-venttos-manaus.xlsm"),
		PlanilhaAba:       getEnv("PLANILHA_ABA", "Plan-VenttosLogistica"),
		PlanilhaModo:      getEnv("PLANILHA_MODO", "arquivo"),
		PlanilhaHeaderRow: getEnvInt("PLANILHA_HEADER_ROW", 6),
		PlanilhaAnchorCol: getEnv("PLANILHA_ANCHOR_COL", "B"),
		PlanilhaNumCols:   getEnvInt("PLANILHA_NUM_COLS", 7),
		ImportIntervalMin: getEnvInt("IMPORT_INTERVAL_MIN", 5),
		ImportTimeoutSec:  getEnvInt("IMPORT_TIMEOUT_SEC", 120),
	}

	// Verificações de segurança para produção
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Variável JWT_SECRET não definida! Obrigatória para produção.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET precisa ter no mínimo 32 caracteres! Risco de segurança.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=venttos port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN usando valor padrão, em produção configure a conexão do Postgres.")
	}
	if cfg.PlanilhaPath == "./pcp-venttos-manaus.xlsm" {
		log.Println("[WARN] PLANILHA_PATH usando valor padrão; em produção aponte para o arquivo da rede.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
