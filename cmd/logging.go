package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/etnz/fiscal"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// SetupLogging returns the logger of the commands. Logs go to stderr, at the
// level of $FSC_LOG_LEVEL, debug with -v, warning otherwise.
func SetupLogging() *logrus.Logger {
	logger := &logrus.Logger{
		Formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
		},
		Out:   os.Stderr,
		Hooks: make(logrus.LevelHooks),
		Level: logrus.WarnLevel,
	}
	if lvl, err := logrus.ParseLevel(os.Getenv(EnvLogLevel)); err == nil {
		logger.Level = lvl
	}
	if *Verbose {
		logger.Level = logrus.DebugLevel
	}
	return logger
}

// execution logs the run of one command with the metrics of the engine.
type execution struct {
	name    string
	logger  *logrus.Logger
	metrics *fiscal.Metrics
	data    logrus.Fields
	start   time.Time
}

// startExecution logs the start of the command name.
func startExecution(name string) *execution {
	e := &execution{
		name:    name,
		logger:  SetupLogging(),
		metrics: fiscal.NewMetrics(),
		data:    logrus.Fields{},
		start:   time.Now(),
	}
	e.logger.Infof("Command.%s.Start", name)
	return e
}

// AddData adds a field to the completion log.
func (e *execution) AddData(key string, value any) { e.data[key] = value }

func (e *execution) entry() *logrus.Entry {
	return e.metrics.Entry(e.logger).
		WithFields(e.data).
		WithField("durationMs", time.Since(e.start).Milliseconds())
}

// Fail logs and prints err, and returns the failure status.
func (e *execution) Fail(err error) subcommands.ExitStatus {
	e.entry().WithError(err).Errorf("Command.%s.Error", e.name)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// UsageError logs and prints err, and returns the usage error status.
func (e *execution) UsageError(err error) subcommands.ExitStatus {
	e.entry().WithError(err).Warnf("Command.%s.UsageError", e.name)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitUsageError
}

// Complete logs the completion of the command and returns the success status.
func (e *execution) Complete() subcommands.ExitStatus {
	e.entry().Infof("Command.%s.Complete", e.name)
	return subcommands.ExitSuccess
}
