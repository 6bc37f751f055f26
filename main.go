package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/asaidimu/go-lego/core/query"
	"github.com/asaidimu/go-lego/sqlite"
)

const (
	dbFileName  = "user.db"
	usersSchema = `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		age INTEGER,
		is_active INTEGER NOT NULL DEFAULT 1,
		roles TEXT
	)`
)

func main() {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Remove the database file if it already exists to start fresh
	if err := os.Remove(dbFileName); err != nil && !os.IsNotExist(err) {
		logger.Fatal("Failed to remove existing database file", zap.String("file", dbFileName), zap.Error(err))
	}

	db, err := sql.Open("sqlite3", dbFileName)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if cErr := db.Close(); cErr != nil {
			logger.Error("Error closing database connection", zap.Error(cErr))
		}
	}()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, usersSchema); err != nil {
		logger.Fatal("Failed to create 'users' table", zap.Error(err))
	}

	users := []struct {
		name, email string
		age         any
		active      bool
		roles       string
	}{
		{"Alice Smith", "alice@example.com", 30, true, `["admin","editor"]`},
		{"Alice Smith", "alice2@example.com", 27, true, `["editor"]`},
		{"Alex Smith", "alex@example.com", 28, false, `[]`},
		{"Bob Otieno", "bob@example.com", nil, true, `["viewer"]`},
	}
	for _, u := range users {
		_, err := db.ExecContext(ctx,
			`INSERT INTO users (name, email, age, is_active, roles) VALUES (?, ?, ?, ?, ?)`,
			u.name, u.email, u.age, u.active, u.roles)
		if err != nil {
			logger.Fatal("Failed to insert user", zap.String("email", u.email), zap.Error(err))
		}
	}
	logger.Info("Sample data inserted successfully.")

	loaderOptions := sqlite.DefaultLoaderOptions()
	loaderOptions.BoolColumns = []string{"is_active"}
	loaderOptions.JSONColumns = []string{"roles"}
	loader := sqlite.NewLoader(db, logger, loaderOptions)

	engine, err := query.NewEngine(&query.EngineOptions{Logger: logger})
	if err != nil {
		logger.Fatal("Failed to create query engine", zap.Error(err))
	}

	engine.RegisterSubscription(query.RegisterSubscriptionOptions{
		Event: query.QueryStep,
		Callback: func(ctx context.Context, event query.QueryEvent) error {
			fmt.Printf("step %-8s %d -> %d records\n", event.Kind, event.Input, event.Output)
			return nil
		},
	})
	engine.RegisterSubscription(query.RegisterSubscriptionOptions{
		Event: query.QueryFailed,
		Callback: func(ctx context.Context, event query.QueryEvent) error {
			fmt.Printf("query %s failed: %s\n", event.QueryID, *event.Error)
			return nil
		},
	})

	byAge, err := query.SortBy("age", query.SortDirectionDesc)
	if err != nil {
		logger.Fatal("Invalid sort", zap.Error(err))
	}
	editors, err := query.Where(`"editor" in record.roles`)
	if err != nil {
		logger.Fatal("Invalid expression", zap.Error(err))
	}

	rows, err := engine.QuerySource(ctx, loader.Table("users"),
		query.Select("id", "name", "email", "age", "is_active"),
		byAge,
		query.FilterIn("is_active", true),
		editors,
	)
	if err != nil {
		logger.Fatal("Failed to query users", zap.Error(err))
	}

	fmt.Println("-------------------------------------------------------------------")
	fmt.Printf("%-10s %-20s %-25s %-5s %-10s\n", "ID", "Name", "Email", "Age", "Active")
	fmt.Println("-------------------------------------------------------------------")
	for _, row := range rows {
		fmt.Printf("%-10v %-20v %-25v %-5v %-10v\n", row["id"], row["name"], row["email"], row["age"], row["is_active"])
	}
	fmt.Println("-------------------------------------------------------------------")

	// Rows with a NULL age sort first, so the youngest known ages follow.
	dsl := query.NewQueryBuilder().
		Select("name", "age").
		OrderByAsc("age").
		Limit(2).
		Build()
	all, err := loader.Load(ctx, "users")
	if err != nil {
		logger.Fatal("Failed to load users", zap.Error(err))
	}
	result, err := engine.Execute(ctx, all, &dsl)
	if err != nil {
		logger.Fatal("Failed to run query", zap.Error(err))
	}
	logger.Info("Youngest users", zap.Any("users", result.Data))

	// Give the asynchronous event handlers a moment before exiting.
	time.Sleep(100 * time.Millisecond)

	fmt.Printf("\nDatabase created at: %s\n", dbFileName)
	fmt.Printf("Inspect it with: sqlite3 %s\n", dbFileName)
}
