// file: internals/helpers/logger/logger.go
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init builds the process-wide structured logger. Production encoding by
// default; "development" flips to the console encoder with debug level.
func Init(environment, serviceName string) error {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	l, err := cfg.Build(zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return err
	}
	log = l
	return nil
}

func Get() *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
