package config

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// levelTable maps the level names accepted in the logging section onto
// logrus severities. CRITICAL and FATAL share a severity, as logrus does
// not distinguish them. NONE is deliberately absent: it disables logging,
// as does any name not in this table.
var levelTable = map[string]log.Level{
	"DEBUG":    log.DebugLevel,
	"INFO":     log.InfoLevel,
	"WARNING":  log.WarnLevel,
	"ERROR":    log.ErrorLevel,
	"CRITICAL": log.FatalLevel,
	"FATAL":    log.FatalLevel,
}

// ParseLevel resolves a level name, case-insensitively. The second return
// value is false when the name disables logging.
func ParseLevel(name string) (log.Level, bool) {
	level, ok := levelTable[strings.ToUpper(name)]
	return level, ok
}
