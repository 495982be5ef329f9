package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"orcamento"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

// ImportOptions tunes the catalog import pipeline. Batch sizes bound both
// memory and transaction length; the lock file only guards manual runs.
type ImportOptions struct {
	ItemBatchSize  int    `env:"IMPORT_ITEM_BATCH_SIZE" envDefault:"1000"`
	PriceBatchSize int    `env:"IMPORT_PRICE_BATCH_SIZE" envDefault:"2000"`
	LinkBatchSize  int    `env:"IMPORT_LINK_BATCH_SIZE" envDefault:"2000"`
	LockFile       string `env:"IMPORT_LOCK_FILE" envDefault:"import.lock"`
}

// PricingOptions carries the region fallback policy. The defaults compensate
// for incomplete regional coverage in the official catalogs (SICRO publishes
// per-state, SINAPI fills SP first).
type PricingOptions struct {
	PrimaryRegion   string `env:"PRICE_PRIMARY_REGION" envDefault:"RS"`
	SecondaryRegion string `env:"PRICE_SECONDARY_REGION" envDefault:"SP"`
	Currency        string `env:"PRICE_CURRENCY" envDefault:"BRL"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type Configuration struct {
	Database   DatabaseOptions
	Import     ImportOptions
	Pricing    PricingOptions
	Prometheus PrometheusOptions

	RedisURL         string `env:"REDIS_URL"`
	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	MaxUploadSize    int64  `env:"MAX_UPLOAD_SIZE" envDefault:"67108864"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.validatePricing(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}
	return nil
}

func (c *Configuration) validatePricing() error {
	if len(c.Pricing.PrimaryRegion) != 2 {
		return fmt.Errorf("invalid PRICE_PRIMARY_REGION=%q (expected a two-letter UF code)", c.Pricing.PrimaryRegion)
	}
	if len(c.Pricing.SecondaryRegion) != 2 {
		return fmt.Errorf("invalid PRICE_SECONDARY_REGION=%q (expected a two-letter UF code)", c.Pricing.SecondaryRegion)
	}
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
