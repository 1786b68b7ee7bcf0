package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret             string
	Issuer             string
	AccessTokenTTLMin  int
	ServiceTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Services holds the base URLs other services are reached at.
type Services struct {
	User        string
	Slot        string
	Reservation string
	VehicleLog  string `mapstructure:"vehiclelog"`
	Billing     string
	TimeoutSec  int
	Retries     int
}

type Sweep struct {
	Spec string
}

type Billing struct {
	Rates map[string]int64 // per started hour, keyed by slot type
}

type Cache struct {
	SlotTTLSec int
}

type Limits struct {
	RPS            float64
	Burst          int
	Concurrency    int64
	MaxBodyBytes   int64
	RequestTimeout int // seconds
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Services Services
	Sweep    Sweep
	Billing  Billing
	Cache    Cache
	Limits   Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "parking")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/parking.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)

	v.SetDefault("jwt.issuer", "parking")
	v.SetDefault("jwt.accesstokenttlmin", 120)
	v.SetDefault("jwt.servicetokenttlmin", 5)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("services.user", "http://localhost:8081")
	v.SetDefault("services.slot", "http://localhost:8082")
	v.SetDefault("services.reservation", "http://localhost:8083")
	v.SetDefault("services.vehiclelog", "http://localhost:8084")
	v.SetDefault("services.billing", "http://localhost:8085")
	v.SetDefault("services.timeoutsec", 5)
	v.SetDefault("services.retries", 3)

	v.SetDefault("sweep.spec", "@every 60s")
	v.SetDefault("billing.rates", map[string]int64{"2W": 10, "4W": 30})
	v.SetDefault("cache.slotttlsec", 30)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.requesttimeout", 10)
}

// Load reads the YAML file at path (CONFIG_PATH, then ./configs/config.local.yaml when empty)
// and applies APP_ prefixed environment overrides, e.g. APP_APP_HTTP_PORT=8082.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	c.Billing.Rates = upperKeys(c.Billing.Rates)
	return &c, nil
}

// viper lowercases map keys.
func upperKeys(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[strings.ToUpper(k)] = v
	}
	return out
}
