package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultServiceName names loggers and traces when none is configured.
const DefaultServiceName = "partnersdk"

// InitLogger constructs a production zap.Logger for the SDK.
func InitLogger() (*zap.Logger, error) {
	return InitLoggerWithLevel(getLogLevel(), DefaultServiceName)
}

// InitLoggerWithService constructs a production zap.Logger named after
// serviceName.
func InitLoggerWithService(serviceName string) (*zap.Logger, error) {
	return InitLoggerWithLevel(getLogLevel(), serviceName)
}

// InitLoggerWithLevel constructs a zap.Logger at the provided level.
// The logger is named with the service name; unlike a server binary it is
// not installed globally, since the SDK runs inside a host process.
func InitLoggerWithLevel(level zapcore.Level, serviceName string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.NameKey = "logger"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.StacktraceKey = "stacktrace"

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named(serviceName).With(zap.String("service", serviceName)), nil
}

// getLogLevel reads LOG_LEVEL, defaulting to debug for the STAGE partner
// environment and info otherwise.
func getLogLevel() zapcore.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return zap.DebugLevel
	case "INFO":
		return zap.InfoLevel
	case "WARN":
		return zap.WarnLevel
	case "ERROR":
		return zap.ErrorLevel
	}
	if strings.EqualFold(os.Getenv("PARTNERS_ENV"), "STAGE") {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}
