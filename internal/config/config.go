package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	App struct {
		// BaseURL prefixes public share-link URLs.
		BaseURL string
	}
	Auth struct {
		JWTSecret string
		// VerifyTokenTTLHours applies to tokens minted by the 2FA verify
		// flow, LoginTokenTTLHours to tokens minted by login. The two entry
		// points keep independent lifetimes.
		VerifyTokenTTLHours int
		LoginTokenTTLHours  int
		OTPTTLMinutes       int
	}
	RateLimit struct {
		WindowMinutes int
		LoginMax      int
		OTPMax        int
	}
	SMTP struct {
		Host           string
		Port           int
		Secure         bool
		User           string
		Password       string
		From           string
		FromName       string
		TimeoutSeconds int
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// OTPTTL returns the one-time-code validity window.
func (c Config) OTPTTL() time.Duration {
	return time.Duration(c.Auth.OTPTTLMinutes) * time.Minute
}

// VerifyTokenTTL returns the session lifetime for the 2FA verify flow.
func (c Config) VerifyTokenTTL() time.Duration {
	return time.Duration(c.Auth.VerifyTokenTTLHours) * time.Hour
}

// LoginTokenTTL returns the session lifetime for the login flow.
func (c Config) LoginTokenTTL() time.Duration {
	return time.Duration(c.Auth.LoginTokenTTLHours) * time.Hour
}

// RateLimitWindow returns the fixed counter window.
func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowMinutes) * time.Minute
}

// MailTimeout bounds a single delivery attempt.
func (c Config) MailTimeout() time.Duration {
	return time.Duration(c.SMTP.TimeoutSeconds) * time.Second
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("VTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/vehicletrack.db")
	v.SetDefault("app.baseurl", "http://localhost:8080")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.verifytokenttlhours", 168)
	v.SetDefault("auth.logintokenttlhours", 720)
	v.SetDefault("auth.otpttlminutes", 10)
	v.SetDefault("ratelimit.windowminutes", 15)
	v.SetDefault("ratelimit.loginmax", 5)
	v.SetDefault("ratelimit.otpmax", 3)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 465)
	v.SetDefault("smtp.secure", true)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.fromname", "Vehicle Tracking")
	v.SetDefault("smtp.timeoutseconds", 15)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "damage-reports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
