package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/gophtasks/internal/flagx"
	"github.com/dmitrijs2005/gophtasks/internal/timex"
)

// FileConfig is the on-disk representation of Config. Durations accept
// strings such as "720h" in both formats; JSON additionally accepts integer
// nanoseconds. Zero values leave the current setting untouched.
type FileConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http" toml:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	Storage                     string         `json:"storage" toml:"storage"`
	DatabaseDSN                 string         `json:"database_dsn" toml:"database_dsn"`
	MongoURI                    string         `json:"mongo_uri" toml:"mongo_uri"`
	MongoDatabase               string         `json:"mongo_database" toml:"mongo_database"`
	SecretKey                   string         `json:"secret_key" toml:"secret_key"`
	TokenValidityDuration       timex.Duration `json:"token_validity_duration" toml:"token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost" toml:"bcrypt_cost"`
	LogLevel                    string         `json:"log_level" toml:"log_level"`
	ReissueTokenOnProfileUpdate *bool          `json:"reissue_token_on_profile_update" toml:"reissue_token_on_profile_update"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout" toml:"shutdown_timeout"`
}

// parseFile loads the file named by -c/-config, if any. The format is picked
// by extension: ".toml" is decoded as TOML, anything else as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	fc, err := readFile(path)
	if err != nil {
		return err
	}
	fc.apply(config)
	return nil
}

func readFile(path string) (*FileConfig, error) {
	fc := &FileConfig{}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, fc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&config.Storage, fc.Storage)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.MongoURI, fc.MongoURI)
	setString(&config.MongoDatabase, fc.MongoDatabase)
	setString(&config.SecretKey, fc.SecretKey)
	setString(&config.LogLevel, fc.LogLevel)

	if fc.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	if fc.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	if fc.BcryptCost != 0 {
		config.BcryptCost = fc.BcryptCost
	}
	if fc.ReissueTokenOnProfileUpdate != nil {
		config.ReissueTokenOnProfileUpdate = *fc.ReissueTokenOnProfileUpdate
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
