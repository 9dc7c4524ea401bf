package logging

import (
	"os"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger. Unknown levels fall back to info.
func Setup(level string) log.Level {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&nested.Formatter{
		FieldsOrder:     []string{"module", "function", "reason"},
		TimestampFormat: "2006-01-02 15:04:05",
		HideKeys:        false,
		NoColors:        os.Getenv("NO_COLOR") != "",
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	return lvl
}
