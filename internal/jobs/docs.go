// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the delivery workflow.
//
// # Available Jobs
//
// 1. AssignmentJob - Triggers an assignment run on a configurable schedule so
// pending orders get routed to available couriers without manual action.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with the assignment handler
//	jobManager := jobs.NewJobManager(runAssignmentHandler, schedule, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule is a six-field cron expression (with seconds). The default
// "0 * * * * *" runs one assignment cycle per minute.
//
// # Error Handling
//
// - Runs that find nothing to assign are expected and not logged as errors
// - A tick that overlaps a still-running run is skipped silently
// - Failed job starts propagate to the caller
package jobs
