// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3.
//
// AssignmentRetryJob picks up orders that entered out_for_delivery without
// getting a driver and runs the assignment again. The default schedule is
// "@every 30s". Running it concurrently with a request for the same order is
// safe: the assignment locks the order row and returns the existing
// assignment when a driver is already attached.
//
//	job := jobs.NewAssignmentRetryJob(awaitingHandler, assignHandler, "@every 30s", 50, 30*time.Second, logger)
//	manager := jobs.NewJobManager(job)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
package jobs
