package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

const DefaultAssignmentRetrySchedule = "@every 30s"

type (
	AwaitingOrdersLister interface {
		Handle(
			ctx context.Context,
			q queries.GetOrdersAwaitingDriverQuery,
		) ([]queries.GetOrdersAwaitingDriverQueryResponse, error)
	}

	DeliveryAssigner interface {
		Handle(ctx context.Context, cmd commands.AssignDeliveryCommand) (commands.AssignmentResult, error)
	}
)

// RetrySummary counts the outcomes of one pass.
type RetrySummary struct {
	Attempted int
	Assigned  int
	Pending   int
	Manual    int
	Failed    int
}

// AssignmentRetryJob re-runs driver assignment for orders that are out for
// delivery but still have no driver. Orders are taken oldest first in bounded
// batches. A pass that is still running when the next tick fires is skipped.
type AssignmentRetryJob struct {
	lister    AwaitingOrdersLister
	assigner  DeliveryAssigner
	schedule  string
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	running   sync.Mutex
	logger    *slog.Logger
}

func NewAssignmentRetryJob(
	lister AwaitingOrdersLister,
	assigner DeliveryAssigner,
	schedule string,
	batchSize int,
	timeout time.Duration,
	logger *slog.Logger,
) *AssignmentRetryJob {
	if schedule == "" {
		schedule = DefaultAssignmentRetrySchedule
	}
	if timeout <= 0 {
		timeout = commands.DefaultAssignmentTimeout
	}
	return &AssignmentRetryJob{
		lister:    lister,
		assigner:  assigner,
		schedule:  schedule,
		batchSize: batchSize,
		timeout:   timeout,
		cron:      cron.New(),
		logger:    logger.With("component", "assignment_retry_job"),
	}
}

// Start schedules the job. It fails on an unparsable schedule.
func (j *AssignmentRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if !j.running.TryLock() {
			j.logger.Warn("previous pass still running, skipping tick")
			return
		}
		defer j.running.Unlock()

		summary, err := j.RunOnce(context.Background())
		if err != nil {
			j.logger.Error("assignment retry pass failed", "error", err)
			return
		}
		if summary.Attempted > 0 {
			j.logger.Info("assignment retry pass finished",
				"attempted", summary.Attempted,
				"assigned", summary.Assigned,
				"pending", summary.Pending,
				"manual", summary.Manual,
				"failed", summary.Failed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("assignment retry job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (j *AssignmentRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("assignment retry job stopped")
}

// RunOnce processes one batch of orders awaiting a driver. Failures of single
// orders are counted and logged; only a failed listing aborts the pass.
func (j *AssignmentRetryJob) RunOnce(ctx context.Context) (RetrySummary, error) {
	query, err := queries.NewGetOrdersAwaitingDriverQuery(j.batchSize)
	if err != nil {
		return RetrySummary{}, err
	}
	orders, err := j.lister.Handle(ctx, query)
	if err != nil {
		return RetrySummary{}, err
	}

	var summary RetrySummary
	for _, o := range orders {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		summary.Attempted++

		result, err := j.assign(ctx, o)
		if err != nil {
			summary.Failed++
			if !errors.Is(err, context.Canceled) {
				j.logger.Error("assignment retry failed", "orderID", o.ID.String(), "error", err)
			}
			continue
		}
		switch result.Outcome {
		case commands.OutcomeAssigned:
			summary.Assigned++
		case commands.OutcomeManualIntervention:
			summary.Manual++
			j.logger.Warn("order needs manual intervention",
				"orderID", o.ID.String(), "attempts", o.AssignmentAttempts+1, "note", result.Note)
		default:
			summary.Pending++
		}
	}
	return summary, nil
}

func (j *AssignmentRetryJob) assign(
	ctx context.Context,
	o queries.GetOrdersAwaitingDriverQueryResponse,
) (commands.AssignmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewAssignDeliveryCommand(o.ID)
	if err != nil {
		return commands.AssignmentResult{}, err
	}
	return j.assigner.Handle(ctx, cmd)
}
