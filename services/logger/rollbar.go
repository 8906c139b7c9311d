package logsvc

import (
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/fen-analytics/sad/core"
)

// reporter forwards errors to Rollbar. A nil reporter reports nothing.
type reporter struct{}

func newReporter(conf *core.Config) *reporter {
	if conf.RollbarToken == "" {
		return nil
	}
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Database.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(!conf.TestMode)
	return &reporter{}
}

// prepare splits args into key/value extras and the first error, if any.
func (r *reporter) prepare(msg string, args []interface{}) (map[string]interface{}, error) {
	var err error
	extras := map[string]interface{}{"message": msg}
	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case error:
			if err == nil {
				err = arg
			}
		case string:
			if i+1 < len(args) {
				extras[arg] = args[i+1]
				i++
			}
		}
	}
	return extras, err
}

func (r *reporter) report(level, msg string, args []interface{}) {
	if r == nil {
		return
	}
	extras, err := r.prepare(msg, args)
	if err != nil {
		rollbar.ErrorWithExtras(level, err, extras)
		return
	}
	rollbar.MessageWithExtras(level, msg, extras)
}

func (r *reporter) wait() {
	if r != nil {
		rollbar.Wait()
	}
}
