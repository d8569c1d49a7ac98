package log

import (
	"os"

	"trac/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger Info 以下寫 stdout、Warn 以上寫 stderr；每筆附上 service / env
func NewLogger(conf *config.Configuration) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Log.Level)
	if err != nil || conf.Log.Level == "" {
		level = zapcore.InfoLevel
	}
	threshold := zap.NewAtomicLevelAt(level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.MessageKey = "message"
	encCfg.TimeKey = "ts"
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch conf.Log.Encoding {
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return threshold.Enabled(l) && l < zapcore.WarnLevel
		})),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return threshold.Enabled(l) && l >= zapcore.WarnLevel
		})),
	)

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(
			zap.String("service", conf.App.Name),
			zap.String("env", conf.App.Env),
		),
	)
	logger.Info("zap logger ready", zap.Stringer("level", level), zap.String("encoding", encodingName(conf.Log.Encoding)))
	return logger, nil
}

func encodingName(encoding string) string {
	if encoding == "console" {
		return encoding
	}
	return "json"
}
