package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger sets the global zerolog level and console output from config.
func InitLogger(kConfig *koanf.Koanf) {
	logLevel := strings.ToUpper(kConfig.MustString("logLevel"))
	switch logLevel {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "INFO":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "DISABLED":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		log.Panic().Msg(fmt.Sprintf("Incorrect log level %s", logLevel))
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}
