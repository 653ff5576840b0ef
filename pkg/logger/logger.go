package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	if err := Init(os.Getenv("ENVIRONMENT")); err != nil {
		base = zap.NewNop()
		sugar = base.Sugar()
	}
}

// Init rebuilds the process logger. Development (or an unset environment)
// gets a human-readable console encoder with debug output; anything else gets
// JSON at info level.
func Init(environment string) error {
	var cfg zap.Config
	if environment == "" || environment == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	base = l
	sugar = l.Sugar()
	return nil
}

// SetLogger replaces the process logger, mainly so tests can observe output.
func SetLogger(l *zap.Logger) {
	base = l.WithOptions(zap.AddCallerSkip(1))
	sugar = base.Sugar()
}

func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// Access writes one structured line per HTTP request.
func Access(method, uri string, status int, latency time.Duration, uid string, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Duration("latency", latency),
	}
	if uid != "" {
		fields = append(fields, zap.String("uid", uid))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		base.Warn("request failed", fields...)
		return
	}
	base.Info("request completed", fields...)
}

func Sync() {
	_ = base.Sync()
}
