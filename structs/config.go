package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Storage   *StorageConfig
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // Frietkot
	Environment    string        // development, production
	Port           string        // :3000
	ReadTimeout    time.Duration // 15s
	WriteTimeout   time.Duration // 15s
	IdleTimeout    time.Duration // 60s
	MaxHeaderBytes int           // in bytes
	BodyLimitBytes int64         // in bytes, multipart uploads included
	Timezone       string        // IANA name or "Local"
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

type DatabaseConfig struct {
	URL                string // takes precedence over the discrete fields
	Driver             string // pg or pgx
	Host               string
	Port               int
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConns           int
	MinConns           int
	MaxLifetime        time.Duration
	MaxIdleTime        time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	SlowQueryThreshold time.Duration
	AutoMigrate        bool
}

type StorageConfig struct {
	Backend        string // local or s3
	LocalDir       string // public/images
	PublicPrefix   string // /images
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3UseSSL       bool
	S3PublicURL    string
	MaxWidth       int
	MaxHeight      int
	Quality        int
	MaxUploadBytes int64
	Folder         string // products
}

type CacheConfig struct {
	Address     string
	Username    string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

type RateLimitConfig struct {
	Enabled     bool
	AdminLimit  int
	AdminWindow time.Duration
}
