package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string
	LogDev   bool

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoBootstrap bool
	DynamoTables    DynamoTables

	S3BucketName    string
	S3PublicBaseURL string // optional CDN / website endpoint for avatar URLs
	AvatarMaxBytes  int64

	CognitoRegion        string
	CognitoUserPoolID    string
	CognitoClientID      string
	CognitoIssuer        string
	JWKSURL              string
	JWKSRefreshInterval  time.Duration
	JWKSRefreshRateLimit time.Duration

	DefaultCurrency string

	MailDriver   string // "ses" | "smtp"
	MailFrom     string
	ContactInbox string
	SESRegion    string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion   string
	SNSTopicARN string // optional; contact alerts are skipped when empty

	ContactRatePerSec float64
	ContactRateBurst  int

	AllowedOrigins []string // CORS allowed origins
	TrustProxy     bool     // take the client IP from X-Forwarded-For / X-Real-IP
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Transactions    string
	Profiles        string
	ContactMessages string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	appEnv := getEnv("APP_ENV", "development")
	region := getEnv("AWS_REGION", "eu-central-1")
	cognitoRegion := getEnv("COGNITO_REGION", region)
	poolID := getEnv("COGNITO_USER_POOL_ID", "")

	cfg := &Config{
		AppPort:  getEnv("APP_PORT", "5000"),
		AppEnv:   appEnv,
		LogLevel: getEnv("LOG_LEVEL", ""),
		LogDev:   getEnvBool("LOG_DEV", appEnv == "development"),

		AWSRegion:      region,
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoBootstrap: getEnvBool("DYNAMO_BOOTSTRAP", appEnv == "development"),
		DynamoTables: DynamoTables{
			Transactions:    getEnv("DYNAMO_TABLE_TRANSACTIONS", "transactions"),
			Profiles:        getEnv("DYNAMO_TABLE_PROFILES", "profiles"),
			ContactMessages: getEnv("DYNAMO_TABLE_CONTACT_MESSAGES", "contact_messages"),
		},

		S3BucketName:    getEnv("S3_BUCKET_NAME", "money-tracker-avatars"),
		S3PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		AvatarMaxBytes:  int64(getEnvInt("AVATAR_MAX_BYTES", 5<<20)),

		CognitoRegion:        cognitoRegion,
		CognitoUserPoolID:    poolID,
		CognitoClientID:      getEnv("COGNITO_CLIENT_ID", ""),
		JWKSRefreshInterval:  getEnvDuration("JWKS_REFRESH_INTERVAL", time.Hour),
		JWKSRefreshRateLimit: getEnvDuration("JWKS_REFRESH_RATE_LIMIT", 5*time.Minute),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "EUR"),

		MailDriver:   strings.ToLower(getEnv("MAIL_DRIVER", "ses")),
		MailFrom:     getEnv("MAIL_FROM", "noreply@moneytracker.me"),
		ContactInbox: getEnv("CONTACT_INBOX", "contact@moneytracker.me"),
		SESRegion:    getEnv("SES_REGION", region),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion:   getEnv("SNS_REGION", region),
		SNSTopicARN: getEnv("SNS_TOPIC_ARN", ""),

		ContactRatePerSec: getEnvFloat("CONTACT_RATE_PER_SEC", 0.2),
		ContactRateBurst:  getEnvInt("CONTACT_RATE_BURST", 3),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
	}

	if poolID != "" {
		cfg.CognitoIssuer = getEnv("COGNITO_ISSUER",
			fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cognitoRegion, poolID))
		cfg.JWKSURL = getEnv("JWKS_URL", cfg.CognitoIssuer+"/.well-known/jwks.json")
	} else {
		cfg.CognitoIssuer = getEnv("COGNITO_ISSUER", "")
		cfg.JWKSURL = getEnv("JWKS_URL", "")
	}
	return cfg
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.JWKSURL == "" {
		missing = append(missing, "JWKS_URL or COGNITO_USER_POOL_ID")
	}
	if c.CognitoClientID == "" {
		missing = append(missing, "COGNITO_CLIENT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	switch c.MailDriver {
	case "ses", "smtp":
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER %q", c.MailDriver)
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
