package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// DefaultAssignmentSchedule runs an assignment cycle once a minute.
const DefaultAssignmentSchedule = "0 * * * * *"

// AssignmentJob triggers assignment runs on a cron schedule so pending orders
// get routed without an operator pressing the button.
type AssignmentJob struct {
	handler  *commands.RunAssignmentCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAssignmentJob creates a scheduled assignment job. An empty schedule
// falls back to DefaultAssignmentSchedule.
func NewAssignmentJob(
	handler *commands.RunAssignmentCommandHandler,
	schedule string,
	logger *slog.Logger,
) *AssignmentJob {
	if schedule == "" {
		schedule = DefaultAssignmentSchedule
	}

	return &AssignmentJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "assignment_job"),
	}
}

// Start schedules the job. Runs that find nothing to do are normal and are
// not logged as errors; so is a tick overlapping a still-running manual run.
func (j *AssignmentJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewRunAssignmentCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Assignment job failed to build command", "error", cmdErr)
			return
		}

		if _, runErr := j.handler.Handle(ctx, cmd); runErr != nil {
			if isExpectedIdleError(runErr) {
				return
			}
			j.logger.ErrorContext(ctx, "Assignment job failed", "error", runErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Assignment job started", "schedule", j.schedule)
	return nil
}

// Stop stops the assignment job.
func (j *AssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment job stopped")
}

func isExpectedIdleError(err error) bool {
	return errors.Is(err, services.ErrNoPendingOrders) ||
		errors.Is(err, services.ErrNoAvailableCouriers) ||
		errors.Is(err, commands.ErrAssignmentRunInProgress)
}
