package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/patrickwarner/partnersdk/internal/models"
)

// Config holds SDK and mock service configuration derived from environment
// variables.
type Config struct {
	// Partner environment and host overrides. Empty base URLs fall back to
	// the environment defaults.
	Environment    models.Environment
	IntegrationKey string
	BrandBaseURL   string
	RTPSBaseURL    string
	HTTPTimeout    time.Duration
	UserAgent      string
	EnableLog      bool

	// Bot-check
	BotCheckTimeout  time.Duration
	BotCheckAction   string
	BotCheckTokenURL string

	// Brand config cache. An empty RedisAddr disables the cache.
	RedisAddr      string
	BrandConfigTTL time.Duration

	ServiceName string
	// Tracing configuration
	TracingEnabled    bool
	TempoEndpoint     string
	TracingSampleRate float64

	// Mock partner service
	Port                  string
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	TokenSecret           string
	TokenTTL              time.Duration
	ChallengeFirstRequest bool
	// Per client key limit on the RTPS endpoints; excess calls are
	// answered with a challenge page.
	RateLimitEnabled    bool
	RateLimitCapacity   int
	RateLimitRefillRate int
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.Environment = models.ParseEnvironment(strings.ToUpper(getenv("PARTNERS_ENV", string(models.EnvironmentProd))))
	cfg.IntegrationKey = getenv("PARTNERS_INTEGRATION_KEY", "")
	cfg.BrandBaseURL = getenv("BRAND_BASE_URL", "")
	cfg.RTPSBaseURL = getenv("RTPS_BASE_URL", "")
	// zero means no client timeout beyond the caller's context
	cfg.HTTPTimeout = envDuration("HTTP_TIMEOUT", 0)
	cfg.UserAgent = getenv("PARTNERS_USER_AGENT", "partnersdk-go/1.0")
	cfg.EnableLog = envBool("ENABLE_LOG", false)

	cfg.BotCheckTimeout = envDuration("BOTCHECK_TIMEOUT", 10*time.Second)
	cfg.BotCheckAction = getenv("BOTCHECK_ACTION", "checkout")
	cfg.BotCheckTokenURL = getenv("BOTCHECK_TOKEN_URL", "")

	cfg.RedisAddr = getenv("REDIS_ADDR", "")
	cfg.BrandConfigTTL = envDuration("BRAND_CONFIG_TTL", time.Hour)

	cfg.ServiceName = getenv("SERVICE_NAME", "partnersdk")
	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.TempoEndpoint = getenv("TEMPO_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	cfg.Port = getenv("PORT", "8787")
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", 5*time.Second)
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", 10*time.Second)
	cfg.TokenSecret = getenv("TOKEN_SECRET", "partnersdk-dev-secret")
	cfg.TokenTTL = envDuration("TOKEN_TTL", 2*time.Minute)
	cfg.ChallengeFirstRequest = envBool("CHALLENGE_FIRST_REQUEST", false)
	cfg.RateLimitEnabled = envBool("RATE_LIMIT_ENABLED", false)
	cfg.RateLimitCapacity = envInt("RATE_LIMIT_CAPACITY", 20)
	cfg.RateLimitRefillRate = envInt("RATE_LIMIT_REFILL_RATE", 5)

	return cfg
}

var errInvalid = errors.New("invalid config")

// Validate reports settings the SDK cannot run with.
func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"BRAND_BASE_URL":     c.BrandBaseURL,
		"RTPS_BASE_URL":      c.RTPSBaseURL,
		"BOTCHECK_TOKEN_URL": c.BotCheckTokenURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%w: %s %q is not an absolute URL", errInvalid, name, raw))
		}
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: HTTP_TIMEOUT must not be negative", errInvalid))
	}
	if c.BotCheckTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: BOTCHECK_TIMEOUT must not be negative", errInvalid))
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		errs = append(errs, fmt.Errorf("%w: TRACING_SAMPLE_RATE must be within [0,1]", errInvalid))
	}
	return errors.Join(errs...)
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envInt parses an integer environment variable with a default.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// envBool parses a boolean environment variable. When unset or invalid, def
// is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
