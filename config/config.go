package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Advisory AdvisoryConfig `mapstructure:"advisory"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	BodyLimit    int64           `mapstructure:"body_limit"` // 请求体上限（字节）
	CORS         CORSConfig      `mapstructure:"cors"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	Timezone     string          `mapstructure:"timezone"` // 计算播种天数使用的时区
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RateLimitConfig 推荐接口限流配置
type RateLimitConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// DatabaseConfig 数据库配置（postgres 为生产驱动，sqlite 用于本地与测试）
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CropTTL  time.Duration `mapstructure:"crop_ttl"` // 作物目录缓存时长
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WeatherConfig 天气代理配置（Open-Meteo）
type WeatherConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Location  string        `mapstructure:"location"`
	Latitude  float64       `mapstructure:"latitude"`
	Longitude float64       `mapstructure:"longitude"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RetryMax  int           `mapstructure:"retry_max"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// AdvisoryConfig 推荐引擎默认值
type AdvisoryConfig struct {
	DefaultSoil   string   `mapstructure:"default_soil"`
	DefaultSeason string   `mapstructure:"default_season"`
	FallbackCrops []string `mapstructure:"fallback_crops"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.rate_limit.limit", 60)
	v.SetDefault("server.rate_limit.window", "1m")
	v.SetDefault("server.timezone", "Asia/Kolkata")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "agroassist")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Kolkata")
	v.SetDefault("db.sqlite_path", "agroassist.db")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.crop_ttl", "10m")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "24h")
	v.SetDefault("auth.issuer", "agroassist")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("weather.base_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.location", "Saharanpur")
	v.SetDefault("weather.latitude", 29.968)
	v.SetDefault("weather.longitude", 77.545)
	v.SetDefault("weather.timeout", "10s")
	v.SetDefault("weather.retry_max", 3)
	v.SetDefault("weather.cache_ttl", "10m")

	v.SetDefault("advisory.default_soil", "Alluvial")
	v.SetDefault("advisory.default_season", "Kharif")
	v.SetDefault("advisory.fallback_crops", []string{"Rice", "Wheat", "Maize"})

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("AGRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("配置校验失败: db.driver 仅支持 postgres 或 sqlite，当前为 %q", c.Database.Driver)
	}
	if len(c.Advisory.FallbackCrops) == 0 {
		return fmt.Errorf("配置校验失败: advisory.fallback_crops 不能为空")
	}
	return nil
}

// Location 返回计算日期所用的时区，解析失败时退回 UTC
func (c *ServerConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
