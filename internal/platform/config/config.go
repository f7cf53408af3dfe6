package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration for the verification service.
type Server struct {
	Addr        string
	Environment string

	// ReportBucket is the object storage bucket holding lab reports and the
	// batch index. When empty the service runs against the in-memory store
	// (development only).
	ReportBucket string

	// RegistryIndexPath is the batch index location: a local file path, or an
	// object name inside ReportBucket when RegistryFromBucket is set.
	RegistryIndexPath  string
	RegistryFromBucket bool

	// RegistryDatabaseURL, when set, loads the registry from Postgres
	// instead of the JSON index.
	RegistryDatabaseURL string

	// Audit sink selection: Postgres when AuditDatabaseURL is set, Kafka when
	// AuditKafkaBrokers is set, in-memory otherwise.
	AuditDatabaseURL  string
	AuditKafkaBrokers string
	AuditKafkaTopic   string

	// AuditBufferSize > 0 switches audit writes to a buffered background
	// goroutine. The default is synchronous: the entry is persisted before
	// the response goes out, and entries can be dropped only when async is
	// explicitly enabled.
	AuditBufferSize int

	// CredentialTTL bounds signed report URLs. Links leak (chat forwards,
	// browser history), so keep this short.
	CredentialTTL time.Duration

	RequestTimeout time.Duration
}

// DefaultCredentialTTL is the signed URL lifetime required for confidential
// lab reports.
const DefaultCredentialTTL = 15 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                envOr("BATCHTRACE_ADDR", ":8080"),
		Environment:         envOr("ENVIRONMENT", "development"),
		ReportBucket:        os.Getenv("REPORT_BUCKET"),
		RegistryIndexPath:   envOr("REGISTRY_INDEX_PATH", "batch-index.json"),
		RegistryFromBucket:  os.Getenv("REGISTRY_FROM_BUCKET") == "true",
		RegistryDatabaseURL: os.Getenv("REGISTRY_DATABASE_URL"),
		AuditDatabaseURL:    os.Getenv("AUDIT_DATABASE_URL"),
		AuditKafkaBrokers:   os.Getenv("AUDIT_KAFKA_BROKERS"),
		AuditKafkaTopic:     envOr("AUDIT_KAFKA_TOPIC", "batchtrace.audit"),
		AuditBufferSize:     envInt("AUDIT_BUFFER_SIZE", 0),
		CredentialTTL:       envDuration("CREDENTIAL_TTL", DefaultCredentialTTL),
		RequestTimeout:      envDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
