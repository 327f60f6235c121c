// cmd/etl/main.go
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/your-org/insight-pyme/internal/config"
	"github.com/your-org/insight-pyme/internal/domain/ingest"
	"github.com/your-org/insight-pyme/internal/infrastructure/database/postgres"
)

func main() {
	customersPath := flag.String("clientes", "", "ruta del CSV de clientes")
	productsPath := flag.String("productos", "", "ruta del CSV de productos")
	salesPath := flag.String("ventas", "", "ruta del CSV de ventas")
	truncate := flag.String("truncate", "false", "vaciar las tablas antes de cargar")
	flag.Parse()

	if *customersPath == "" || *productsPath == "" || *salesPath == "" {
		log.Fatal("Usage: etl -clientes=<csv> -productos=<csv> -ventas=<csv> [-truncate=true]")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Ensure the schema exists before loading
	migration := postgres.NewMigration(db.GetDB())
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	service := ingest.NewService(db.GetDB(), cfg)

	summary, err := service.LoadAll(*customersPath, *productsPath, *salesPath, parseTruncate(*truncate))
	if err != nil {
		log.Fatalf("ETL failed: %v", err)
	}

	log.Printf("Clientes: %d", summary.Customers)
	log.Printf("Productos: %d", summary.Products)
	log.Printf("Ventas: %d", summary.Sales)
	log.Println("✅ ETL terminado")
}

// parseTruncate accepts the loose truthy spellings the loader always took
func parseTruncate(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
