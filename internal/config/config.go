package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtsidehq/roster-api/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Snapshot store drivers.
const (
	SnapshotDriverMemory   = "memory"
	SnapshotDriverRedis    = "redis"
	SnapshotDriverPostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	PlayerPageSize     int
	PlayerCacheEnabled bool
	PlayerCacheTTL     time.Duration

	BallDontLieBaseURL               string
	BallDontLieToken                 string
	BallDontLieTimeout               time.Duration
	BallDontLieMaxRetries            int
	BallDontLieCircuitEnabled        bool
	BallDontLieCircuitFailureCount   int
	BallDontLieCircuitOpenTimeout    time.Duration
	BallDontLieCircuitHalfOpenMaxReq int

	SnapshotDriver       string
	SnapshotWriteTimeout time.Duration
	RedisURL             string
	DBURL                string

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	playerPageSize, err := getEnvAsInt("PLAYER_PAGE_SIZE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYER_PAGE_SIZE: %w", err)
	}
	if playerPageSize < 1 || playerPageSize > 100 {
		return Config{}, fmt.Errorf("PLAYER_PAGE_SIZE must be between 1 and 100")
	}

	playerCacheEnabled, err := strconv.ParseBool(getEnv("PLAYER_CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYER_CACHE_ENABLED: %w", err)
	}
	playerCacheTTL, err := time.ParseDuration(getEnv("PLAYER_CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYER_CACHE_TTL: %w", err)
	}
	if playerCacheTTL <= 0 {
		return Config{}, fmt.Errorf("PLAYER_CACHE_TTL must be > 0")
	}

	ballDontLieToken := strings.TrimSpace(getEnv("BALLDONTLIE_TOKEN", ""))
	if ballDontLieToken == "" {
		return Config{}, fmt.Errorf("BALLDONTLIE_TOKEN is required")
	}
	ballDontLieTimeout, err := time.ParseDuration(getEnv("BALLDONTLIE_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_TIMEOUT: %w", err)
	}
	if ballDontLieTimeout <= 0 {
		return Config{}, fmt.Errorf("BALLDONTLIE_TIMEOUT must be > 0")
	}
	ballDontLieMaxRetries, err := getEnvAsInt("BALLDONTLIE_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_MAX_RETRIES: %w", err)
	}
	if ballDontLieMaxRetries < 0 {
		return Config{}, fmt.Errorf("BALLDONTLIE_MAX_RETRIES must be >= 0")
	}
	ballDontLieCircuitEnabled, err := strconv.ParseBool(getEnv("BALLDONTLIE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_CIRCUIT_ENABLED: %w", err)
	}
	ballDontLieCircuitFailureCount, err := getEnvAsInt("BALLDONTLIE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if ballDontLieCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("BALLDONTLIE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	ballDontLieCircuitOpenTimeout, err := time.ParseDuration(getEnv("BALLDONTLIE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if ballDontLieCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("BALLDONTLIE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	ballDontLieCircuitHalfOpenMaxReq, err := getEnvAsInt("BALLDONTLIE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if ballDontLieCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("BALLDONTLIE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	snapshotDriver, err := parseSnapshotDriver(getEnv("SNAPSHOT_DRIVER", SnapshotDriverMemory))
	if err != nil {
		return Config{}, err
	}
	snapshotWriteTimeout, err := time.ParseDuration(getEnv("SNAPSHOT_WRITE_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SNAPSHOT_WRITE_TIMEOUT: %w", err)
	}
	if snapshotWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("SNAPSHOT_WRITE_TIMEOUT must be > 0")
	}
	redisURL := strings.TrimSpace(getEnv("REDIS_URL", ""))
	if snapshotDriver == SnapshotDriverRedis && redisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL is required when SNAPSHOT_DRIVER=redis")
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if snapshotDriver == SnapshotDriverPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when SNAPSHOT_DRIVER=postgres")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "roster-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),

		PlayerPageSize:     playerPageSize,
		PlayerCacheEnabled: playerCacheEnabled,
		PlayerCacheTTL:     playerCacheTTL,

		BallDontLieBaseURL:               strings.TrimSpace(getEnv("BALLDONTLIE_BASE_URL", "https://api.balldontlie.io/v1")),
		BallDontLieToken:                 ballDontLieToken,
		BallDontLieTimeout:               ballDontLieTimeout,
		BallDontLieMaxRetries:            ballDontLieMaxRetries,
		BallDontLieCircuitEnabled:        ballDontLieCircuitEnabled,
		BallDontLieCircuitFailureCount:   ballDontLieCircuitFailureCount,
		BallDontLieCircuitOpenTimeout:    ballDontLieCircuitOpenTimeout,
		BallDontLieCircuitHalfOpenMaxReq: ballDontLieCircuitHalfOpenMaxReq,

		SnapshotDriver:       snapshotDriver,
		SnapshotWriteTimeout: snapshotWriteTimeout,
		RedisURL:             redisURL,
		DBURL:                dbURL,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseSnapshotDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case SnapshotDriverMemory, SnapshotDriverRedis, SnapshotDriverPostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid SNAPSHOT_DRIVER %q: valid values are %s, %s, %s", v, SnapshotDriverMemory, SnapshotDriverRedis, SnapshotDriverPostgres)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
