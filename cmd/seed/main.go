package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/riadice/riadice-backend/config"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/internal/app/service"
	"github.com/riadice/riadice-backend/internal/db"
	"github.com/riadice/riadice-backend/internal/importer"
)

func main() {
	menuPath := flag.String("menu", "", "XLSX file with menu items to import")
	assumeYes := flag.Bool("y", false, "import without asking for confirmation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := db.BootstrapAdmin(db.GetDB(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal("Failed to bootstrap admin:", err)
	}

	if *menuPath == "" {
		fmt.Println("No menu file given, nothing to import.")
		return
	}

	fmt.Printf("Reading XLSX file: %s\n", *menuPath)
	f, err := os.Open(*menuPath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	items, skipped, err := importer.ReadMenuXLSX(f, service.MenuItemDescriptor().Validate)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	for _, rowErr := range skipped {
		fmt.Printf("  skipped %s\n", rowErr.Error())
	}
	fmt.Printf("Total menu items to import: %d (skipped: %d)\n", len(items), len(skipped))
	if len(items) == 0 {
		return
	}

	if !*assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	batchSize := 500
	menuRepo := repository.NewResourceRepository[model.MenuItem](db.GetDB(), "menu_items")
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := menuRepo.BulkCreate(items, batchSize); err != nil {
		log.Fatal("Failed to bulk create menu items:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total menu items imported: %d\n", len(items))
}
