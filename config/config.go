package config

import (
	"frietkot_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment without caching it.
func Load() *structs.Config {
	backend := getEnvAsString("STORAGE_BACKEND", "local")

	// Remote images are shown larger on the public menu.
	defaultEdge := 300
	if backend == "s3" {
		defaultEdge = 800
	}

	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "Frietkot"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":3000"),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			BodyLimitBytes: int64(getEnvAsInt("BODY_LIMIT_BYTES", 10<<20)),
			Timezone:       getEnvAsString("APP_TIMEZONE", "Local"),
		},
		Cors: &structs.CorsConfig{
			AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Database: &structs.DatabaseConfig{
			URL:                getEnvAsString("DATABASE_URL", getEnvAsString("POSTGRES_URL", "")),
			Driver:             getEnvAsString("DB_DRIVER", "pg"),
			Host:               getEnvAsString("DB_HOST", "localhost"),
			Port:               getEnvAsInt("DB_PORT", 5432),
			User:               getEnvAsString("DB_USER", "postgres"),
			Password:           getEnvAsString("DB_PASSWORD", "postgres"),
			Name:               getEnvAsString("DB_NAME", "frietkot"),
			SSLMode:            getEnvAsString("DB_SSLMODE", "disable"),
			MaxConns:           getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:           getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:        getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:        getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			ReadTimeout:        getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:       getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			SlowQueryThreshold: getEnvAsTimeDuration("DB_SLOW_QUERY_THRESHOLD", time.Second),
			AutoMigrate:        getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Storage: &structs.StorageConfig{
			Backend:        backend,
			LocalDir:       getEnvAsString("STORAGE_LOCAL_DIR", "public/images"),
			PublicPrefix:   getEnvAsString("STORAGE_PUBLIC_PREFIX", "/images"),
			S3Endpoint:     getEnvAsString("STORAGE_S3_ENDPOINT", ""),
			S3AccessKey:    getEnvAsString("STORAGE_S3_ACCESS_KEY", ""),
			S3SecretKey:    getEnvAsString("STORAGE_S3_SECRET_KEY", ""),
			S3Bucket:       getEnvAsString("STORAGE_S3_BUCKET", "product-images"),
			S3Region:       getEnvAsString("STORAGE_S3_REGION", ""),
			S3UseSSL:       getEnvAsBool("STORAGE_S3_USE_SSL", true),
			S3PublicURL:    getEnvAsString("STORAGE_S3_PUBLIC_URL", ""),
			MaxWidth:       getEnvAsInt("IMAGE_MAX_WIDTH", defaultEdge),
			MaxHeight:      getEnvAsInt("IMAGE_MAX_HEIGHT", defaultEdge),
			Quality:        getEnvAsInt("IMAGE_QUALITY", 80),
			MaxUploadBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)), // 5 MB
			Folder:         getEnvAsString("IMAGE_FOLDER", "products"),
		},
		Cache: &structs.CacheConfig{
			Address:     getEnvAsString("REDIS_ADDR", ""),
			Username:    getEnvAsString("REDIS_USERNAME", ""),
			Password:    getEnvAsString("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout: getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:     getEnvAsBool("RATE_LIMIT_ENABLED", false),
			AdminLimit:  getEnvAsInt("RATE_LIMIT_ADMIN_LIMIT", 60),
			AdminWindow: getEnvAsTimeDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
		},
	}
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}

// Location resolves the configured timezone, falling back to the server zone.
func Location(cfg *structs.ServerConfig) *time.Location {
	if cfg == nil || cfg.Timezone == "" || cfg.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
