package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DocumentStoreMariaDB = "mariadb"
	DocumentStoreMongo   = "mongo"
)

type Settings struct {
	ServerPort int

	DocumentStore string

	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	MinioEndpoint       string
	MinioAccessKey      string
	MinioSecretKey      string
	MinioUseSSL         bool
	Bucket              string
	AssetsPublicBaseURL string
	MaxUploadSizeBytes  int64
	RequireImage        bool
	RequireVideo        bool
	StoreTimeout        time.Duration
	UploadTimeout       time.Duration
	OrphanGracePeriod   time.Duration
	CacheTTL            time.Duration
	RedisAddr           string
	RedisPassword       string
	JWTPublicKey        string
	JWKSURL             string
	JWTIssuer           string
	JWTAudience         string
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	v.SetDefault("DOCUMENT_STORE", DocumentStoreMariaDB)
	v.SetDefault("MONGO_COLLECTION", "peliculas")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "peliculas")
	v.SetDefault("MAX_UPLOAD_SIZE_MB", 25)
	v.SetDefault("REQUIRE_IMAGE", false)
	v.SetDefault("REQUIRE_VIDEO", false)
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("UPLOAD_TIMEOUT", "60s")
	v.SetDefault("ORPHAN_GRACE_PERIOD", "1h")
	v.SetDefault("CACHE_TTL", "5m")

	if !v.IsSet("SERVER_PORT") {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}

	store := strings.ToLower(strings.TrimSpace(v.GetString("DOCUMENT_STORE")))
	switch store {
	case DocumentStoreMariaDB:
		for _, key := range []string{"MARIADB_DSN", "MARIADB_MAX_OPEN_CONN", "MARIADB_MAX_IDLE_CONNS", "MARIADB_CONN_MAX_LIFETIME"} {
			if !v.IsSet(key) {
				return nil, fmt.Errorf("%s is required", key)
			}
		}
	case DocumentStoreMongo:
		for _, key := range []string{"MONGO_URI", "MONGO_DATABASE"} {
			if !v.IsSet(key) {
				return nil, fmt.Errorf("%s is required", key)
			}
		}
	default:
		return nil, fmt.Errorf("DOCUMENT_STORE %q is not supported", store)
	}

	for _, key := range []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY"} {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	maxUploadMB := v.GetInt64("MAX_UPLOAD_SIZE_MB")
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive")
	}

	return &Settings{
		ServerPort: v.GetInt("SERVER_PORT"),

		DocumentStore: store,

		MariaDBDSN:      v.GetString("MARIADB_DSN"),
		MaxOpenConns:    v.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    v.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,

		MongoURI:        v.GetString("MONGO_URI"),
		MongoDatabase:   v.GetString("MONGO_DATABASE"),
		MongoCollection: v.GetString("MONGO_COLLECTION"),

		MinioEndpoint:       v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:      v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:      v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:         v.GetBool("MINIO_USE_SSL"),
		Bucket:              v.GetString("MINIO_BUCKET"),
		AssetsPublicBaseURL: strings.TrimRight(v.GetString("ASSETS_PUBLIC_BASE_URL"), "/"),
		MaxUploadSizeBytes:  maxUploadMB * 1024 * 1024,
		RequireImage:        v.GetBool("REQUIRE_IMAGE"),
		RequireVideo:        v.GetBool("REQUIRE_VIDEO"),
		StoreTimeout:        v.GetDuration("STORE_TIMEOUT"),
		UploadTimeout:       v.GetDuration("UPLOAD_TIMEOUT"),
		OrphanGracePeriod:   v.GetDuration("ORPHAN_GRACE_PERIOD"),
		CacheTTL:            v.GetDuration("CACHE_TTL"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		JWTPublicKey:        v.GetString("JWT_PUBLIC_KEY"),
		JWKSURL:             v.GetString("JWKS_URL"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		JWTAudience:         v.GetString("JWT_AUDIENCE"),
	}, nil
}
