package config

import (
	"log"
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

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name     string
	Env      string
	Timezone string // 计算“今天”所用时区
	HTTP     HTTP
	Admin    AdminHTTP
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
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
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

type Session struct {
	Driver             string  // redis | memory
	TTLHours           int     `mapstructure:"ttlHours"`
	RefreshProbability float64 `mapstructure:"refreshProbability"`
}

type Cache struct {
	MenuTTLSec int `mapstructure:"menuTTLSec"` // 0 关闭菜单缓存
}

type CORS struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type SeedAdmin struct {
	NationalID string `mapstructure:"nationalId"`
	FullName   string `mapstructure:"fullName"`
}

type Seed struct {
	Admins []SeedAdmin `mapstructure:"admins"`
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Session Session
	Cache   Cache
	CORS    CORS `mapstructure:"cors"`
	Seed    Seed
}

func defaults(v *viper.Viper) {
	v.SetDefault("app.name", "cafeteria-reservations")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "cafeteria")
	v.SetDefault("jwt.accessTokenTTLMin", 720)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:cafeteria.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	v.SetDefault("db.maxOpenConns", 10)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("session.driver", "redis")
	v.SetDefault("session.ttlHours", 720)
	v.SetDefault("session.refreshProbability", 0.1)
}

// Read 读取 YAML + APP_ 前缀环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	defaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	return c
}
