package mainboilerplate

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// LogConfig configures handling of application log events.
type LogConfig struct {
	Level      string `long:"level" env:"LEVEL" default:"warn" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal" description:"Logging level"`
	Format     string `long:"format" env:"FORMAT" default:"text" choice:"json" choice:"text" choice:"color" description:"Logging output format"`
	Timestamps bool   `long:"timestamps" env:"TIMESTAMPS" description:"Include full wall-clock timestamps in text log output"`
}

// InitLog configures the standard logger. Logs are written to stderr,
// leaving stdout for program output.
func InitLog(cfg LogConfig) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(newLogFormatter(cfg))

	if lvl, err := log.ParseLevel(cfg.Level); err != nil {
		log.WithField("err", err).Fatal("unrecognized log level")
	} else {
		log.SetLevel(lvl)
	}
}

func newLogFormatter(cfg LogConfig) log.Formatter {
	switch cfg.Format {
	case "json":
		return &log.JSONFormatter{}
	case "color":
		return &log.TextFormatter{ForceColors: true, FullTimestamp: cfg.Timestamps}
	default:
		return &log.TextFormatter{FullTimestamp: cfg.Timestamps}
	}
}
