package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger. format "console" gives colored development
// output, anything else JSON production output.
func Init(level, format string) error {
	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return err
	}
	sugar = l.Sugar()
	return nil
}

func get() *zap.SugaredLogger {
	once.Do(func() {
		if sugar == nil {
			l, _ := zap.NewProduction(zap.AddCallerSkip(2))
			sugar = l.Sugar()
		}
	})
	return sugar
}

// normalize tolerates a dangling value (typically a bare error) at the end
// of the key-value list so calls like Error("stage", err) stay loggable.
func normalize(kv []any) []any {
	if len(kv)%2 == 0 {
		return kv
	}
	last := kv[len(kv)-1]
	kv = kv[:len(kv)-1]
	if err, ok := last.(error); ok {
		return append(kv, "error", err)
	}
	return append(kv, "value", last)
}

func Debug(msg string, kv ...any) { get().Debugw(msg, normalize(kv)...) }
func Info(msg string, kv ...any)  { get().Infow(msg, normalize(kv)...) }
func Warn(msg string, kv ...any)  { get().Warnw(msg, normalize(kv)...) }
func Error(msg string, kv ...any) { get().Errorw(msg, normalize(kv)...) }

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = get().Sync()
}
