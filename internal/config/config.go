package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Mail     MailConfig
	App      AppConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port          string
	AppName       string        `mapstructure:"app_name"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	AuthRateLimit int           `mapstructure:"auth_rate_limit"` // 每分钟 /api/auth 请求上限
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
	LogLevel string `mapstructure:"log_level"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AppConfig 应用级配置：邮件链接地址与默认管理员
type AppConfig struct {
	PublicURL     string `mapstructure:"public_url"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

type LogConfig struct {
	Level  string
	Format string
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.app_name", "bizledger")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.auth_rate_limit", 30)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "bizledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// 未设置默认值的键不会被 AutomaticEnv 解析
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 72*time.Hour)

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "no-reply@bizledger.local")

	v.SetDefault("app.public_url", "http://localhost:3000")
	v.SetDefault("app.admin_username", "admin")
	v.SetDefault("app.admin_email", "admin@admin.com")
	v.SetDefault("app.admin_password", "admin123")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func LoadConfig() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")        // 在当前目录中查找配置
	v.AddConfigPath("./config") // 在 config 目录中查找配置

	SetDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Error reading config file, %s", err)
	}

	cfg, err := Decode(v)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("jwt.secret (JWT_SECRET) must be set")
	}

	return cfg
}

// Decode unmarshals v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
