package cron

import (
	"context"

	"github.com/nossoespaco/server/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartBackgroundJobs wires the recurring jobs: the daily anniversary
// scan and the push-queue drain. The dispatcher may be nil when APNs is
// not configured.
func StartBackgroundJobs(anniversaries *jobs.AnniversaryNotifier, dispatcher *jobs.PushDispatcher) {
	c := cron.New()

	// Anniversary reminders, once a day
	c.AddFunc("0 9 * * *", func() {
		if err := anniversaries.RunDailyScan(context.Background()); err != nil {
			logrus.WithError(err).Error("Anniversary scan failed")
		}
	})

	if dispatcher != nil {
		// Drain the push queue every minute
		c.AddFunc("@every 1m", func() {
			if err := dispatcher.Run(context.Background()); err != nil {
				logrus.WithError(err).Error("Push dispatch failed")
			}
		})
	}

	c.Start()
}
