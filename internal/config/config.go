package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// price list the matcher reads on every run
	PriceFile string

	OpenAIBaseURL string
	OpenAIModel   string
	CohereBaseURL string
	CohereModel   string
	EmbedTimeout  time.Duration

	FallbackEnabled  bool
	FallbackTopN     int
	FallbackMinScore float64
}

// Load читает окружение; .env в рабочем каталоге необязателен.
func Load() Config {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "64"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/pricematch-service.log"),

		PriceFile: getenv("PRICE_FILE", "MJD-PRICELIST.xlsx"),

		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:   getenv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-large"),
		CohereBaseURL: getenv("COHERE_BASE_URL", "https://api.cohere.ai"),
		CohereModel:   getenv("COHERE_EMBED_MODEL", "embed-english-v3.0"),
		EmbedTimeout:  getduration("EMBED_TIMEOUT", 2*time.Minute),

		FallbackEnabled:  getbool("FALLBACK_ENABLED", true),
		FallbackTopN:     getint("FALLBACK_TOP_N", 3),
		FallbackMinScore: getfloat("FALLBACK_MIN_SCORE", 0.25),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func getfloat(k string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return v
}

func getbool(k string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func getduration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
