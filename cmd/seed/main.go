package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/menuca/menuca-backend/config"
	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/internal/app/service"
	"github.com/menuca/menuca-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports restaurants and their menus from an XLSX workbook. The workbook
// needs a "restaurants" sheet and may carry a "dishes" sheet whose rows
// reference restaurants by name. Every restaurant goes through the same
// transactional registration path the API uses, so a bad dish row rolls the
// whole restaurant back and incomplete dish rows are skipped.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	registry := db.NewRegistry(&cfg.Database, nil)
	defer registry.Close()

	vendorDB, err := registry.ForRole(db.PoolVendor)
	if err != nil {
		log.Fatal("Failed to open vendor pool:", err)
	}
	authDB, err := registry.ForRole(db.PoolAuth)
	if err != nil {
		log.Fatal("Failed to open auth pool:", err)
	}

	userRepo := repository.NewUserRepository(authDB)
	restaurantRepo := repository.NewRestaurantRepository(vendorDB)
	dishRepo := repository.NewDishRepository(vendorDB)
	restaurantService := service.NewRestaurantService(registry, restaurantRepo, restaurantRepo, dishRepo)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	imports, err := readImportsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total restaurants to import: %d\n", len(imports))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	created := 0
	dishesSkipped := 0
	failed := 0
	for _, imp := range imports {
		vendor, err := userRepo.FindByEmail(strings.ToLower(imp.vendorEmail))
		if err != nil {
			fmt.Printf("Skipping %q: vendor %s not found\n", imp.input.Name, imp.vendorEmail)
			failed++
			continue
		}
		if vendor.Role != model.RoleVendor {
			fmt.Printf("Skipping %q: %s is not a vendor account\n", imp.input.Name, imp.vendorEmail)
			failed++
			continue
		}

		_, skipped, err := restaurantService.CreateRestaurant(vendor.ID, imp.input)
		if err != nil {
			fmt.Printf("Failed to import %q: %v\n", imp.input.Name, err)
			failed++
			continue
		}
		created++
		dishesSkipped += skipped
	}

	fmt.Println("Import completed.")
	fmt.Printf("Restaurants created: %d, failed: %d, dishes skipped: %d\n", created, failed, dishesSkipped)
}

type restaurantImport struct {
	vendorEmail string
	input       service.CreateRestaurantInput
}

func readImportsFromXLSX(filePath string) ([]restaurantImport, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	restaurantRows, err := f.GetRows("restaurants")
	if err != nil {
		return nil, fmt.Errorf("failed to read restaurants sheet: %w", err)
	}
	if len(restaurantRows) < 2 {
		return nil, fmt.Errorf("restaurants sheet has no data rows")
	}

	// Dish rows are grouped under their restaurant's name
	dishesByRestaurant := make(map[string][]service.DishInput)
	dishRows, err := f.GetRows("dishes")
	if err == nil {
		for i, row := range dishRows {
			if i == 0 || len(row) < 3 {
				continue
			}
			restaurantName := strings.TrimSpace(row[0])
			dish := service.DishInput{
				Name: strings.TrimSpace(row[1]),
			}
			if price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err == nil {
				dish.Price = &price
			}
			if len(row) > 3 {
				dish.Ingredients = strings.TrimSpace(row[3])
			}
			if len(row) > 4 {
				dish.IncludesDrink = strings.EqualFold(strings.TrimSpace(row[4]), "yes")
			}
			if len(row) > 5 {
				if units, err := strconv.Atoi(strings.TrimSpace(row[5])); err == nil {
					dish.AvailableUnits = units
				}
			}
			dishesByRestaurant[restaurantName] = append(dishesByRestaurant[restaurantName], dish)
		}
	}

	var imports []restaurantImport
	skipped := 0

	// Columns: vendor_email, name, location, price_tier, cuisine_type,
	// opening_time, closing_time, avg_wait_minutes
	for i, row := range restaurantRows {
		if i == 0 {
			continue
		}
		if len(row) < 5 {
			skipped++
			continue
		}

		vendorEmail := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		location := strings.TrimSpace(row[2])
		priceTier := strings.TrimSpace(row[3])
		cuisineType := strings.TrimSpace(row[4])

		if vendorEmail == "" || name == "" || location == "" || cuisineType == "" {
			skipped++
			continue
		}

		input := service.CreateRestaurantInput{
			Name:        name,
			Location:    location,
			PriceTier:   model.PriceTier(strings.ToLower(priceTier)),
			CuisineType: cuisineType,
			Dishes:      dishesByRestaurant[name],
		}
		if len(row) > 5 {
			input.OpeningTime = strings.TrimSpace(row[5])
		}
		if len(row) > 6 {
			input.ClosingTime = strings.TrimSpace(row[6])
		}
		if len(row) > 7 {
			if wait, err := strconv.Atoi(strings.TrimSpace(row[7])); err == nil {
				input.AvgWaitMinutes = wait
			}
		}

		imports = append(imports, restaurantImport{vendorEmail: vendorEmail, input: input})
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d malformed restaurant rows\n", skipped)
	}

	return imports, nil
}
