package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	RedisURL          string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration

	// Minting workflow
	MintRequiredApprovals int
	PendingApprovalTTL    time.Duration

	// One-time passcodes
	OTPTTL         time.Duration
	OTPDigits      int
	OTPMaxAttempts int

	// Notification fan-out
	NotificationBuffer int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "cbdc-backend")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("MINT_REQUIRED_APPROVALS", 3)
	viper.SetDefault("PENDING_APPROVAL_TTL", "72h")
	viper.SetDefault("OTP_TTL", "5m")
	viper.SetDefault("OTP_DIGITS", 6)
	viper.SetDefault("OTP_MAX_ATTEMPTS", 5)
	viper.SetDefault("NOTIFICATION_BUFFER", 256)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "cbdc-backend"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	refreshTokenExpiryStr := viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION")
	refreshTokenExpiryDuration, err := time.ParseDuration(refreshTokenExpiryStr)
	if err != nil {
		refreshTokenExpiryDuration = time.Hour * 24 * 7
		if refreshTokenExpiryStr != "" {
			log.Printf("Warning: Invalid value for REFRESH_TOKEN_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", refreshTokenExpiryStr, refreshTokenExpiryDuration.String())
		}
	}

	mintRequiredApprovals := viper.GetInt("MINT_REQUIRED_APPROVALS")
	if mintRequiredApprovals < 1 {
		mintRequiredApprovals = 3
		log.Printf("Warning: MINT_REQUIRED_APPROVALS must be at least 1. Defaulting to %d.\n", mintRequiredApprovals)
	}

	pendingApprovalTTL, err := time.ParseDuration(viper.GetString("PENDING_APPROVAL_TTL"))
	if err != nil || pendingApprovalTTL <= 0 {
		pendingApprovalTTL = 72 * time.Hour
	}

	otpTTL, err := time.ParseDuration(viper.GetString("OTP_TTL"))
	if err != nil || otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}

	otpDigits := viper.GetInt("OTP_DIGITS")
	if otpDigits < 4 || otpDigits > 10 {
		otpDigits = 6
	}

	otpMaxAttempts := viper.GetInt("OTP_MAX_ATTEMPTS")
	if otpMaxAttempts < 1 {
		otpMaxAttempts = 5
	}

	notificationBuffer := viper.GetInt("NOTIFICATION_BUFFER")
	if notificationBuffer < 1 {
		notificationBuffer = 256
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer
	cfg.RefreshTokenExpiryDuration = refreshTokenExpiryDuration
	cfg.MintRequiredApprovals = mintRequiredApprovals
	cfg.PendingApprovalTTL = pendingApprovalTTL
	cfg.OTPTTL = otpTTL
	cfg.OTPDigits = otpDigits
	cfg.OTPMaxAttempts = otpMaxAttempts
	cfg.NotificationBuffer = notificationBuffer

	return cfg, nil
}
