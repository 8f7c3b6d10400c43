// Package main is a diagnostic tool for testing database connectivity and
// inspecting live reference data. It connects to the database, counts the rows
// in each entity table, and prints the most recent event-log entries to
// stdout. The binary exits with a non-zero code on any failure so it can be
// embedded in health checks or CI/CD pipeline steps to gate deployments on a
// reachable, migrated database.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

func main() {
	dbPassword := os.Getenv("DATABASE_PASSWORD")
	if dbPassword == "" {
		dbPassword = "registry"
	}

	connStr := fmt.Sprintf("host=localhost port=5432 user=registry password=%s dbname=geodata_registry sslmode=disable", dbPassword)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	// Row counts per entity table
	fmt.Println("=== ENTITIES ===")
	for _, table := range []string{"countries", "states", "cities"} {
		var count int64
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			log.Fatalf("Count query on %s failed: %v", table, err)
		}
		fmt.Printf("%-10s %d rows\n", table, count)
	}

	var inactive int64
	if err := db.QueryRow("SELECT COUNT(*) FROM cities WHERE NOT is_active").Scan(&inactive); err != nil {
		log.Fatalf("Inactive-city count failed: %v", err)
	}
	fmt.Printf("%-10s %d inactive\n", "cities", inactive)

	// Recent mutations
	fmt.Println("\n=== RECENT EVENT LOGS ===")
	rows, err := db.Query(`SELECT id, event_type, entity_type, entity_id, created_at
		FROM event_logs ORDER BY created_at DESC LIMIT 10`)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, entityID int64
		var eventType, entityType, createdAt string
		if err := rows.Scan(&id, &eventType, &entityType, &entityID, &createdAt); err != nil {
			log.Printf("Warning: failed to scan event log row: %v", err)
			continue
		}
		fmt.Printf("Event %d: %s %s/%d at %s\n", id, eventType, entityType, entityID, createdAt)
		count++
	}

	if count == 0 {
		fmt.Println("No event logs found!")
	}
}
