package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"dispatch/cmd"
	adapterhttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/depotrepo"
	"dispatch/internal/adapters/out/postgres/historyrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := createDatabaseIfNotExists(configs); err != nil {
		log.Fatalf("Database bootstrap failed: %v", err)
	}

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Application wiring failed: %v", err)
	}

	if configs.AssignmentCronEnabled {
		jobManager := app.CreateJobManager(configs.AssignmentCronSchedule)
		if err = jobManager.StartAll(); err != nil {
			log.Fatalf("Failed to start jobs: %v", err)
		}
		defer jobManager.StopAll()
	}

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// A missing .env is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	config := cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     envOrDefault("DB_HOST", "localhost"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     envOrDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envOrDefault("DB_NAME", "dispatch"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		SolverCommand: envOrDefault("SOLVER_COMMAND", "python3"),
		SolverArgs:    []string{envOrDefault("SOLVER_SCRIPT", "scripts/cvrp_solver.py")},
		SolverTimeout: envDuration("SOLVER_TIMEOUT", 0),

		OSRMBaseURL:       os.Getenv("OSRM_BASE_URL"),
		DirectionsTimeout: envDuration("DIRECTIONS_TIMEOUT", 0),

		AssignmentCronEnabled:  envBool("ASSIGNMENT_CRON_ENABLED"),
		AssignmentCronSchedule: os.Getenv("ASSIGNMENT_CRON_SCHEDULE"),
	}
	return config
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return parsed
}

func envBool(key string) bool {
	value := os.Getenv(key)
	if value == "" {
		return false
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Fatalf("Invalid boolean in %s: %v", key, err)
	}
	return parsed
}

// createDatabaseIfNotExists connects to the maintenance database and creates
// the application database on first start.
func createDatabaseIfNotExists(configs cmd.Config) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBSslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", configs.DBName).
		Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = db.Exec("CREATE DATABASE " + configs.DBName)
	return err
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&courierrepo.RouteStopDTO{},
		&depotrepo.DepotDTO{},
		&historyrepo.HistoryDTO{},
	)
	if err != nil {
		return nil, err
	}

	return gormDB, nil
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := adapterhttp.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateCreateCourierCommandHandler(),
		app.CreateSetDepotCommandHandler(),
		app.CreateRunAssignmentCommandHandler(),
		app.CreatePickOrderCommandHandler(),
		app.CreateDeliverOrderCommandHandler(),
		app.CreateGetPendingOrdersQueryHandler(),
		app.CreateGetCourierRouteQueryHandler(),
		app.CreateGetCourierHistoryQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
