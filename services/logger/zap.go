// Package logsvc provides the core.Logger used by the command line tools.
package logsvc

import (
	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fen-analytics/sad/core"
)

// Logger writes structured logs with zap and, when a Rollbar token is configured, reports errors to Rollbar.
type Logger struct {
	zl  *zap.SugaredLogger
	rep *reporter
}

var _ core.Logger = (*Logger)(nil)

func NewLogger(conf *core.Config) (*Logger, error) {
	zconf := zap.NewProductionConfig()
	if conf.Debug {
		zconf = zap.NewDevelopmentConfig()
		zconf.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zconf.OutputPaths = []string{"stderr"}
	zl, err := zconf.Build(zap.Fields(zap.String("env", conf.Env), zap.String("build", conf.Build)))
	if err != nil {
		return nil, err
	}
	return &Logger{zl: zl.Sugar(), rep: newReporter(conf)}, nil
}

// NewLoggerFrom wraps an existing zap logger, without Rollbar reporting.
func NewLoggerFrom(zl *zap.Logger) *Logger {
	return &Logger{zl: zl.Sugar()}
}

// fields turns args into zap key/value pairs: errors become an "error" field.
func fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, len(args)+1)
	for i := 0; i < len(args); i++ {
		if err, ok := args[i].(error); ok {
			kvs = append(kvs, zap.Error(err))
			continue
		}
		kvs = append(kvs, args[i])
		if i+1 < len(args) {
			kvs = append(kvs, args[i+1])
			i++
		}
	}
	return kvs
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.zl.Debugw(msg, fields(args)...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.zl.Infow(msg, fields(args)...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.zl.Warnw(msg, fields(args)...)
	l.rep.report(rollbar.WARN, msg, args)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.zl.Errorw(msg, fields(args)...)
	l.rep.report(rollbar.ERR, msg, args)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.rep.report(rollbar.CRIT, msg, args)
	l.rep.wait()
	l.zl.Fatalw(msg, fields(args)...)
}

// Sync flushes buffered logs and pending Rollbar reports.
func (l *Logger) Sync() error {
	l.rep.wait()
	return l.zl.Sync()
}
