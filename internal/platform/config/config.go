package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Document store backends.
const (
	DocumentStoreMemory    = "memory"
	DocumentStorePostgres  = "postgres"
	DocumentStoreFirestore = "firestore"
)

// Object store backends.
const (
	ObjectStoreMemory = "memory"
	ObjectStoreGCS    = "gcs"
	ObjectStoreS3     = "s3"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSize   int64
	SignedURLTTL    time.Duration

	Documents DocumentStoreConfig
	Objects   ObjectStoreConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
}

// DocumentStoreConfig selects and configures the translation record store.
type DocumentStoreConfig struct {
	Backend             string
	DatabaseURL         string
	MaxOpenConns        int
	MaxIdleConns        int
	ConnMaxLifetime     time.Duration
	FirestoreProjectID  string
	FirestoreCollection string
}

// ObjectStoreConfig selects and configures the file store.
type ObjectStoreConfig struct {
	Backend string
	Bucket  string

	// GCS signing; empty uses the client's default credentials.
	GCSSigningEmail string
	GCSPrivateKey   string

	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
}

// RedisConfig configures the signed URL cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures transition event publishing. No brokers means
// events are only logged.
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

// IsDevelopment reports whether the process runs with dev defaults.
func (s Server) IsDevelopment() bool {
	return s.Environment == "" || s.Environment == "development"
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:            getEnv("DOCFLOW_ADDR", ":8080"),
		Environment:     getEnv("DOCFLOW_ENV", "development"),
		JWTSigningKey:   os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:       os.Getenv("JWT_ISSUER"),
		JWTAudience:     os.Getenv("JWT_AUDIENCE"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxUploadSize:   int64(getInt("MAX_UPLOAD_SIZE_BYTES", 50<<20)),
		SignedURLTTL:    getDuration("SIGNED_URL_TTL", time.Hour),
		Documents: DocumentStoreConfig{
			Backend:             getEnv("DOCUMENT_STORE", DocumentStoreMemory),
			DatabaseURL:         os.Getenv("DATABASE_URL"),
			MaxOpenConns:        getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:        getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:     getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			FirestoreProjectID:  os.Getenv("FIRESTORE_PROJECT_ID"),
			FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "document_translations"),
		},
		Objects: ObjectStoreConfig{
			Backend:           getEnv("OBJECT_STORE", ObjectStoreMemory),
			Bucket:            getEnv("STORAGE_BUCKET", "document-vault"),
			GCSSigningEmail:   os.Getenv("GCS_SIGNING_EMAIL"),
			GCSPrivateKey:     os.Getenv("GCS_PRIVATE_KEY"),
			S3Region:          getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:        os.Getenv("S3_ENDPOINT"),
			S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			S3UsePathStyle:    os.Getenv("S3_USE_PATH_STYLE") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:             getEnv("KAFKA_TOPIC", "translation-events"),
			Partitions:        int32(getInt("KAFKA_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(getInt("KAFKA_REPLICATION_FACTOR", 1)),
		},
	}

	if cfg.JWTSigningKey == "" {
		if !cfg.IsDevelopment() {
			return Server{}, fmt.Errorf("JWT_SIGNING_KEY is required in %s", cfg.Environment)
		}
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (s Server) validate() error {
	switch s.Documents.Backend {
	case DocumentStoreMemory:
	case DocumentStorePostgres:
		if s.Documents.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres document store")
		}
	case DocumentStoreFirestore:
		if s.Documents.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required for the firestore document store")
		}
	default:
		return fmt.Errorf("unknown DOCUMENT_STORE %q", s.Documents.Backend)
	}
	switch s.Objects.Backend {
	case ObjectStoreMemory, ObjectStoreGCS, ObjectStoreS3:
	default:
		return fmt.Errorf("unknown OBJECT_STORE %q", s.Objects.Backend)
	}
	if s.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_BYTES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
