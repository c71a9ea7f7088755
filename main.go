package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"station_data_sync/config"
	"station_data_sync/database"
	"station_data_sync/ingest"
	"station_data_sync/logger"
	"station_data_sync/source"
	"station_data_sync/store"
)

func main() {
	// With no arguments the tool runs a sync pass; that is what the
	// scheduler invokes.
	command := "sync"
	if len(os.Args) >= 2 {
		command = os.Args[1]
	}

	if command == "help" {
		showHelp()
		return
	}

	cfg := loadConfig()
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger.LogCommand(os.Args[0], os.Args)

	var err error
	switch command {
	case "sync":
		err = syncCommand(cfg)
	case "connect":
		err = connectCommand(cfg)
	case "db:info":
		err = dbInfoCommand(cfg)
	case "fetch:preview":
		err = fetchPreviewCommand(cfg)
	default:
		logger.Errorf("Unknown command: %s\n", command)
		logger.Close()
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		logger.Errorf("%s failed: %v\n", command, err)
		logger.Close()
		os.Exit(1)
	}

	if cerr := logger.Close(); cerr != nil {
		log.Fatalf("Failed to close logging: %v", cerr)
	}
}

func showHelp() {
	fmt.Println("Station Data Sync - fetch production readings into the database")
	fmt.Println("")
	fmt.Println("Usage: station_data_sync [command]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  sync                 Fetch, normalize and upsert readings (default)")
	fmt.Println("  connect              Test database connection")
	fmt.Println("  db:info              Show database and table information")
	fmt.Println("  fetch:preview        Fetch and print readings without writing")
	fmt.Println("  help                 Show this help message")
	fmt.Println("")
	fmt.Println("Configuration:")
	fmt.Println("  Edit config.yaml to configure API and database settings.")
	fmt.Println("  API_TOKEN, API_BASE_URL, STATION_ID and DATABASE_URL")
	fmt.Println("  environment variables override the file.")
}

func loadConfig() *config.Config {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

// syncCommand runs one full ingestion pass. The database connection is scoped
// to this function and released on every return path.
func syncCommand(cfg *config.Config) error {
	logger.Printf("Starting sync for station %s\n", cfg.API.StationID)

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	client := source.NewClient(cfg)
	readingStore := store.NewReadingStore(db)
	runner := ingest.NewRunner(client, readingStore, cfg.API.StationID)

	result, err := runner.Run()
	if err != nil {
		if result.Written > 0 {
			// Earlier upserts are independent and stay committed
			logger.Warnf("Run failed after %d of %d bucket(s) were written\n",
				result.Written, result.Buckets)
		}
		return err
	}

	logger.Printf("✓ Sync completed: %d fetched, %d bucket(s), %d written\n",
		result.Fetched, result.Buckets, result.Written)
	return nil
}

func connectCommand(cfg *config.Config) error {
	logger.Println("Testing database connection...")

	if _, err := database.Connect(cfg); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer database.Close()

	logger.Printf("✓ Successfully connected to %s database\n", cfg.Database.Driver)

	info := database.GetDatabaseInfo(cfg)
	infoJSON, _ := json.MarshalIndent(info, "", "  ")
	logger.Printf("Connection info: %s\n", infoJSON)
	return nil
}

func dbInfoCommand(cfg *config.Config) error {
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	info := database.GetDatabaseInfo(cfg)
	logger.Printf("Database Type:     %v\n", info["driver"])
	logger.Printf("Connected:         %v\n", info["connected"])

	switch cfg.Database.Driver {
	case "mysql", "postgres":
		logger.Printf("Host:              %v\n", info["host"])
		logger.Printf("Port:              %v\n", info["port"])
		logger.Printf("Database:          %v\n", info["database"])
	case "sqlite":
		logger.Printf("File Path:         %v\n", info["path"])
	}

	readingStore := store.NewReadingStore(db)
	count, err := readingStore.CountForStation(cfg.API.StationID)
	if err != nil {
		return err
	}
	logger.Printf("Rows for station %s: %d\n", cfg.API.StationID, count)
	return nil
}

// fetchPreviewCommand exercises the API path alone, printing what a sync run
// would persist. Useful when pointing the tool at a new station.
func fetchPreviewCommand(cfg *config.Config) error {
	client := source.NewClient(cfg)

	raw, err := client.FetchReadings(cfg.API.StationID)
	if err != nil {
		return err
	}
	logger.Printf("Fetched %d raw reading(s)\n", len(raw))

	for _, record := range raw {
		reading, err := ingest.Normalize(record, cfg.API.StationID)
		if err != nil {
			return err
		}
		logger.Printf("  %s | %.1f W | day %.2f kWh | total %.2f kWh | state %d\n",
			reading.Timestamp.Format(time.RFC3339), reading.PowerW,
			reading.EnergyDayKWh, reading.EnergyTotalKWh, reading.StatusCode)
	}
	return nil
}
