package main

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/isseis/go-cmr-nrt-sync/logger"
)

var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// cronLogger routes cron's own messages through the application logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}

// runScheduled invokes job on every tick of spec until ctx is cancelled.
// A tick that fires while the previous job is still running is skipped.
// It returns after the running job, if any, has finished.
func runScheduled(ctx context.Context, spec string, log logger.Logger, job func(context.Context)) error {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		return err
	}

	log.Info("Scheduler started", "schedule", spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
	return nil
}
