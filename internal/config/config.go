package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
)

type Config struct {
	Port        string
	AppEnv      string
	FrontendURL string

	MongoURI          string
	MongoHost         string
	MongoUser         string
	MongoPassword     string
	MongoDB           string
	MongoTransactions bool

	TokenSecret      string
	TokenExpireHours int

	PaymentProvider string
	StripeSecretKey string
	PaymentCurrency string

	IdentityProvider           string
	FirebaseServiceAccountPath string
	GoogleClientID             string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "5000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "*"),

		MongoURI:          getEnv("MONGO_URI", ""),
		MongoHost:         getEnv("MONGO_HOST", ""),
		MongoUser:         getEnv("DB_USER", ""),
		MongoPassword:     getEnv("DB_PASS", ""),
		MongoDB:           getEnv("MONGO_DB", "medicalCamp"),
		MongoTransactions: getBool("MONGO_TRANSACTIONS", true),

		TokenSecret:      getEnv("ACCESS_TOKEN_SECRET", ""),
		TokenExpireHours: getInt("TOKEN_EXPIRE_HOURS", 1),

		PaymentProvider: strings.ToLower(getEnv("PAYMENT_PROVIDER", "stripe")),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		PaymentCurrency: strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),

		IdentityProvider:           strings.ToLower(getEnv("IDENTITY_PROVIDER", "none")),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		GoogleClientID:             getEnv("GOOGLE_CLIENT_ID", ""),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 40),
	}
}

// Validate reports every missing secret at once. A non-nil result is fatal at startup.
func (c *Config) Validate() error {
	var errs []error

	if c.MongoURI == "" && (c.MongoHost == "" || c.MongoUser == "" || c.MongoPassword == "") {
		errs = append(errs, errors.New("MONGO_URI or DB_USER/DB_PASS/MONGO_HOST must be set"))
	}
	if c.TokenSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET must be set"))
	}

	switch c.PaymentProvider {
	case "stripe":
		if c.StripeSecretKey == "" {
			errs = append(errs, errors.New("STRIPE_SECRET_KEY must be set when PAYMENT_PROVIDER=stripe"))
		}
	case "stub":
	default:
		errs = append(errs, fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.PaymentProvider))
	}

	switch c.IdentityProvider {
	case "none", "":
	case "firebase":
		if c.FirebaseServiceAccountPath == "" {
			errs = append(errs, errors.New("FIREBASE_SERVICE_ACCOUNT_PATH must be set when IDENTITY_PROVIDER=firebase"))
		}
	case "google":
		if c.GoogleClientID == "" {
			errs = append(errs, errors.New("GOOGLE_CLIENT_ID must be set when IDENTITY_PROVIDER=google"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider))
	}

	return errors.Join(errs...)
}

// MongoConnectionURI prefers MONGO_URI and otherwise assembles an SRV URI from credentials.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority", c.MongoUser, c.MongoPassword, c.MongoHost)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
