package config

import (
	"os"
	"strings"
	"time"

	"github.com/zero-day-ai/taskdef/store"
)

// Storage backend types.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageEtcd   = "etcd"
	StorageMySQL  = "mysql"
)

// Value encodings for stored entities.
const (
	EncodingJSON  = "json"
	EncodingProto = "proto"
)

// Environment variables that override the storage section of a config file.
const (
	EnvStorageType   = "TASKDEF_STORAGE_TYPE"
	EnvRedisURL      = "TASKDEF_REDIS_URL"
	EnvEtcdEndpoints = "TASKDEF_ETCD_ENDPOINTS"
	EnvMySQLDSN      = "TASKDEF_MYSQL_DSN"
)

// StorageConfig selects and configures the repository backend.
type StorageConfig struct {
	// Type is one of "memory", "redis", "etcd" or "mysql".
	// Default: "memory"
	Type string `yaml:"type,omitempty"`

	// Encoding is the stored value format, "json" or "proto".
	// Default: "json"
	Encoding string `yaml:"encoding,omitempty"`

	// Namespace prefixes every key (Redis, etcd) or table name (MySQL).
	// Default: "taskdef"
	Namespace string `yaml:"namespace,omitempty"`

	// RedisURL is the Redis connection string (e.g., "redis://localhost:6379")
	RedisURL string `yaml:"redis_url,omitempty"`

	// EtcdEndpoints is the list of etcd endpoints
	EtcdEndpoints []string `yaml:"etcd_endpoints,omitempty"`

	// MySQLDSN is the MySQL data source name
	MySQLDSN string `yaml:"mysql_dsn,omitempty"`

	// Timeout bounds connection establishment.
	// Format: Go duration string (e.g., "5s")
	// Default: 5s
	Timeout string `yaml:"timeout,omitempty"`

	// TLS enables mutual TLS for Redis and etcd when set
	TLS *store.TLSFiles `yaml:"tls,omitempty"`
}

// GetType returns the backend type or the default value.
func (s *StorageConfig) GetType() string {
	if s == nil || s.Type == "" {
		return StorageMemory
	}
	return strings.ToLower(s.Type)
}

// GetEncoding returns the value encoding or the default value.
func (s *StorageConfig) GetEncoding() string {
	if s == nil || s.Encoding == "" {
		return EncodingJSON
	}
	return strings.ToLower(s.Encoding)
}

// GetNamespace returns the namespace or the default value.
func (s *StorageConfig) GetNamespace() string {
	if s == nil || s.Namespace == "" {
		return "taskdef"
	}
	return s.Namespace
}

// GetTimeout parses the timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (s *StorageConfig) GetTimeout() time.Duration {
	if s == nil || s.Timeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// ApplyEnv overrides fields with the TASKDEF_* environment variables that
// are set. Unset variables leave the file values untouched.
func (s *StorageConfig) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvStorageType); ok && v != "" {
		s.Type = v
	}
	if v, ok := os.LookupEnv(EnvRedisURL); ok && v != "" {
		s.RedisURL = v
	}
	if v, ok := os.LookupEnv(EnvEtcdEndpoints); ok && v != "" {
		endpoints := strings.Split(v, ",")
		for i, ep := range endpoints {
			endpoints[i] = strings.TrimSpace(ep)
		}
		s.EtcdEndpoints = endpoints
	}
	if v, ok := os.LookupEnv(EnvMySQLDSN); ok && v != "" {
		s.MySQLDSN = v
	}
}
