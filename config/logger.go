package config

import (
	"github.com/MonkyMars/gecho"
)

var logger *gecho.Logger

func InitializeLogger() *gecho.Logger {
	logger = gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(!IsProduction()),
		gecho.WithLogLevel(gecho.ParseLogLevel(GetLogLevel())),
	))
	return logger
}

func GetLogger() *gecho.Logger {
	if logger == nil {
		return InitializeLogger()
	}
	return logger
}
