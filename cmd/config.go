package cmd

import "time"

// Config carries all runtime settings of the dispatch service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	SolverCommand string
	SolverArgs    []string
	SolverTimeout time.Duration

	OSRMBaseURL       string
	DirectionsTimeout time.Duration

	AssignmentCronEnabled  bool
	AssignmentCronSchedule string
}
