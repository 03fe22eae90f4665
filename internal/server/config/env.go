package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// parseEnv overlays settings from environment variables. Values from the
// optional dotenv file are used only for keys absent from the real
// environment.
func parseEnv(config *Config, dotEnvPath string) error {
	dotEnv, err := godotenv.Read(dotEnvPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", dotEnvPath, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotEnv[key]
		return v, ok
	}

	strVars := []struct {
		keys []string
		dst  *string
	}{
		{[]string{"HTTP_ADDRESS"}, &config.EndpointAddrHTTP},
		{[]string{"GRPC_ADDRESS"}, &config.EndpointAddrGRPC},
		{[]string{"STORAGE"}, &config.Storage},
		{[]string{"DATABASE_DSN", "DB_URL"}, &config.DatabaseDSN},
		{[]string{"MONGO_URI"}, &config.MongoURI},
		{[]string{"MONGO_DATABASE"}, &config.MongoDatabase},
		{[]string{"JWT_SECRET"}, &config.SecretKey},
		{[]string{"LOG_LEVEL"}, &config.LogLevel},
	}
	for _, v := range strVars {
		for _, key := range v.keys {
			if value, ok := lookup(key); ok {
				*v.dst = value
				break
			}
		}
	}

	if value, ok := lookup("TOKEN_VALIDITY"); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("TOKEN_VALIDITY: %w", err)
		}
		config.TokenValidityDuration = d
	}
	if value, ok := lookup("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		config.ShutdownTimeout = d
	}
	if value, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if value, ok := lookup("REISSUE_TOKEN_ON_PROFILE_UPDATE"); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("REISSUE_TOKEN_ON_PROFILE_UPDATE: %w", err)
		}
		config.ReissueTokenOnProfileUpdate = b
	}

	return nil
}
