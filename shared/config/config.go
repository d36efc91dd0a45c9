package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Http       Http          `yaml:"http"`
	Storage    Storage       `yaml:"storage"`
	Board      Board         `yaml:"board"`
	Security   Security      `yaml:"security"`
	RateLimits RateLimits    `yaml:"rate_limits"`
	Log        Log           `yaml:"log"`
	JwtTTL     time.Duration `yaml:"jwt_ttl"`
}

type Http struct {
	Addr           string        `yaml:"addr" validate:"required"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type Storage struct {
	Driver string `yaml:"driver" validate:"required,oneof=mongo postgres sqlite"`
	Mongo  Mongo  `yaml:"mongo"`
	Pg     Pg     `yaml:"pg"`
	Sqlite Sqlite `yaml:"sqlite"`
}

type Mongo struct {
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type Pg struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Dbname       string `yaml:"dbname"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type Sqlite struct {
	Path string `yaml:"path"`
}

type Board struct {
	ThreadsPerPage     int           `yaml:"threads_per_page" validate:"min=1"`
	PreviewReplies     int           `yaml:"preview_replies" validate:"min=1"`   // replies shown per thread in a board listing
	MaxTextLength      int           `yaml:"max_text_length" validate:"min=1"`   // in runes
	MaxThreadsPerBoard *int          `yaml:"max_threads_per_board"`              // nil disables pruning
	GCInterval         time.Duration `yaml:"gc_interval"`
}

type Security struct {
	BcryptCost        int  `yaml:"bcrypt_cost" validate:"min=4,max=31"`
	LegacyStatusCodes bool `yaml:"legacy_status_codes"` // answer 200 with the message text on failures
	SecureCookies     bool `yaml:"secure_cookies"`
}

type RateLimits struct {
	PostsPerMinute   float64 `yaml:"posts_per_minute"` // 0 disables the limit
	ReportsPerMinute float64 `yaml:"reports_per_minute"`
}

type Log struct {
	Level string `yaml:"level"`
	Json  bool   `yaml:"json"`
}

type Private struct {
	JwtKey string           `yaml:"jwt_key" validate:"required"`
	Pg     PgCredentials    `yaml:"pg"`
	Mongo  MongoCredentials `yaml:"mongo"`
}

type PgCredentials struct {
	Password string `yaml:"password"`
}

type MongoCredentials struct {
	Uri string `yaml:"uri"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

// Default returns the values used for every key the yaml files leave out.
func Default() Config {
	return Config{
		Public: Public{
			Http: Http{
				Addr:           ":8080",
				ReadTimeout:    10 * time.Second,
				WriteTimeout:   10 * time.Second,
				AllowedOrigins: []string{"*"},
			},
			Storage: Storage{
				Driver: DriverSqlite,
				Mongo:  Mongo{Database: "msgboard", Collection: "threads"},
				Pg:     Pg{Host: "localhost", Port: 5432, User: "msgboard", Dbname: "msgboard", MaxOpenConns: 10},
				Sqlite: Sqlite{Path: "msgboard.db"},
			},
			Board: Board{
				ThreadsPerPage: 10,
				PreviewReplies: 3,
				MaxTextLength:  10_000,
				GCInterval:     10 * time.Minute,
			},
			Security: Security{BcryptCost: 10},
			RateLimits: RateLimits{
				PostsPerMinute:   6,
				ReportsPerMinute: 30,
			},
			Log:    Log{Level: "info"},
			JwtTTL: 24 * time.Hour,
		},
	}
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

func MustLoad(configFolder string) *Config {
	cfg := Default()
	mustLoadPath(path.Join(configFolder, "public.yaml"), &cfg.Public)
	mustLoadPath(path.Join(configFolder, "private.yaml"), &cfg.Private)

	if err := Validate(&cfg); err != nil {
		panic(err.Error())
	}
	return &cfg
}

func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Public.Board.MaxThreadsPerBoard != nil && *cfg.Public.Board.MaxThreadsPerBoard < 1 {
		return fmt.Errorf("invalid config: max_threads_per_board must be positive")
	}
	return nil
}
