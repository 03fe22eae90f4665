package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophtasks/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-b", "-d", "-m", "-n", "-s", "-t", "-cost", "-l", "-r"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-g string     gRPC bind address, empty disables gRPC
//	-b string     storage backend: postgres, mongo or memory
//	-d string     PostgreSQL DSN
//	-m string     MongoDB URI
//	-n string     MongoDB database name
//	-s string     JWT HMAC secret key
//	-t duration   token validity (e.g. "720h")
//	-cost int     bcrypt cost
//	-l string     log level
//	-r            reissue a token on profile update (use -r=false to disable)
//
// args are first filtered with flagx.FilterArgs so that -c/-config and
// foreign flags do not make parsing fail.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.Storage, "b", config.Storage, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity duration")
	fs.IntVar(&config.BcryptCost, "cost", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.ReissueTokenOnProfileUpdate, "r", config.ReissueTokenOnProfileUpdate, "reissue token on profile update")

	return fs.Parse(flagx.FilterArgs(args, serverFlags))
}
