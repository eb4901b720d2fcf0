package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/greenbean/storefront-backend/config"
	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/greenbean/storefront-backend/internal/app/repository"
	"github.com/greenbean/storefront-backend/internal/db"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
)

// Seeds the product catalog. With an XLSX path the sheet is imported;
// without one the built-in catalog is loaded.
//
// Usage:
//
//	go run cmd/seed/main.go [xlsx_file_path]
func main() {
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

	var products []model.Product
	if len(os.Args) > 1 {
		filePath := os.Args[1]
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		products, err = readProductsFromXLSX(filePath)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}
	} else {
		fmt.Println("No XLSX file given, seeding the built-in catalog")
		products = builtinCatalog()
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	productRepo := repository.NewProductRepository(db.GetDB())

	imported := 0
	skipped := 0
	for i := range products {
		if existing, err := productRepo.FindBySKU(products[i].SKU); err == nil && existing != nil {
			skipped++
			continue
		}
		if err := productRepo.Create(&products[i]); err != nil {
			log.Fatal("Failed to create product:", err)
		}
		imported++
	}

	fmt.Printf("Import completed: %d created, %d already present\n", imported, skipped)
}

// readProductsFromXLSX expects columns:
// SKU | Name | Description | Price | OriginalPrice | Category | Image | Rating | Stock | Popular | New | OnSale | Tags
func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			// Header row
			continue
		}
		if len(row) < 9 {
			skipped++
			continue
		}

		sku := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if sku == "" || name == "" || seen[sku] {
			skipped++
			continue
		}
		seen[sku] = true

		price, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}

		product := model.Product{
			SKU:         sku,
			Name:        name,
			Description: strings.TrimSpace(row[2]),
			Price:       price,
			Category:    model.ProductCategory(strings.TrimSpace(row[5])),
			ImageURL:    strings.TrimSpace(row[6]),
		}

		if original, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64); err == nil && original > 0 {
			product.OriginalPrice = &original
		}
		if rating, err := strconv.Atoi(strings.TrimSpace(row[7])); err == nil {
			product.Rating = rating
		}
		if stock, err := strconv.Atoi(strings.TrimSpace(row[8])); err == nil {
			product.StockQuantity = stock
		}
		if len(row) > 9 {
			product.IsPopular = parseBool(row[9])
		}
		if len(row) > 10 {
			product.IsNew = parseBool(row[10])
		}
		if len(row) > 11 {
			product.IsOnSale = parseBool(row[11])
		}
		if len(row) > 12 && strings.TrimSpace(row[12]) != "" {
			product.Tags = pq.StringArray(strings.Split(strings.TrimSpace(row[12]), ","))
		}

		products = append(products, product)
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d unusable rows\n", skipped)
	}
	return products, nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func builtinCatalog() []model.Product {
	return []model.Product{
		{SKU: "monstera-deliciosa", Name: "Monstera Deliciosa", Price: 25.99, Category: model.CategoryIndoor, ImageURL: "/static/images/indoor/monstera.jpg", Rating: 5, StockQuantity: 25, IsPopular: true, Tags: pq.StringArray{"tropical", "easy-care"}, Description: "The Monstera Deliciosa, also known as the Swiss Cheese Plant, is a stunning tropical houseplant famous for its unique split leaves."},
		{SKU: "snake-plant", Name: "Snake Plant", Price: 19.99, Category: model.CategoryIndoor, ImageURL: "/static/images/indoor/snake-plant.jpg", Rating: 5, StockQuantity: 40, IsPopular: true, Tags: pq.StringArray{"low-light", "easy-care"}, Description: "The Snake Plant is the ultimate low-maintenance houseplant, perfect for beginners or busy plant parents."},
		{SKU: "peace-lily", Name: "Peace Lily", Price: 20.00, Category: model.CategoryIndoor, ImageURL: "/static/images/indoor/peace-lily.jpg", Rating: 4, StockQuantity: 30, Tags: pq.StringArray{"flowering", "low-light"}, Description: "The elegant Peace Lily is a graceful flowering houseplant that produces beautiful white blooms throughout the year."},
		{SKU: "golden-pothos", Name: "Golden Pothos", Price: 18.00, Category: model.CategoryIndoor, ImageURL: "/static/images/indoor/golden_potho.jpg", Rating: 4, StockQuantity: 35, Tags: pq.StringArray{"trailing", "easy-care"}, Description: "The Golden Pothos is a versatile trailing vine with heart-shaped leaves variegated in golden yellow."},
		{SKU: "fiddle-leaf-fig", Name: "Fiddle Leaf Fig", Price: 35.00, Category: model.CategoryIndoor, ImageURL: "/static/images/indoor/fiddle-leaf-fig.jpg", Rating: 4, StockQuantity: 15, IsNew: true, Description: "The Fiddle Leaf Fig is a dramatic statement plant with large, violin-shaped glossy green leaves."},
		{SKU: "zz-plant", Name: "ZZ Plant", Price: 24.00, Category: model.CategoryIndoor, ImageURL: "/static/images/indoor/ZZ_plants.jpg", Rating: 5, StockQuantity: 28, Tags: pq.StringArray{"low-light", "drought-tolerant"}, Description: "The ZZ Plant is virtually indestructible with its glossy, waxy leaves and remarkable drought tolerance."},
		{SKU: "jade-plant", Name: "Jade Plant", Price: 16.00, Category: model.CategoryIndoor, ImageURL: "/static/images/indoor/Jade Plant.jpg", Rating: 5, StockQuantity: 32, IsPopular: true, Tags: pq.StringArray{"succulent"}, Description: "The Jade Plant is a beautiful succulent with thick, fleshy oval leaves that symbolize good luck."},
		{SKU: "money-tree", Name: "Money Tree", Price: 28.00, Category: model.CategoryIndoor, ImageURL: "/static/images/indoor/money_tree.jpg", Rating: 4, StockQuantity: 20, Description: "The Money Tree features a distinctive braided trunk and palmate leaves, believed to bring good fortune."},
		{SKU: "lavender", Name: "Lavender", Price: 15.00, Category: model.CategoryOutdoor, ImageURL: "/static/images/outdoor/lavender.jpg", Rating: 5, StockQuantity: 50, IsPopular: true, Tags: pq.StringArray{"fragrant", "perennial"}, Description: "Fragrant lavender is a beautiful perennial herb with silvery-green foliage and iconic purple flower spikes."},
		{SKU: "rosemary", Name: "Rosemary", Price: 12.00, Category: model.CategoryOutdoor, ImageURL: "/static/images/outdoor/rosemary.jpg", Rating: 4, StockQuantity: 45, Tags: pq.StringArray{"herb", "fragrant"}, Description: "Rosemary is an aromatic evergreen herb with needle-like leaves and a pine-like fragrance."},
		{SKU: "sunflower", Name: "Sunflower", Price: 18.00, Category: model.CategoryOutdoor, ImageURL: "/static/images/outdoor/sunflower.jpg", Rating: 5, StockQuantity: 60, IsNew: true, Description: "Bright and cheerful sunflowers are annual plants that follow the sun throughout the day."},
		{SKU: "palm-tree", Name: "Palm Tree", Price: 45.00, Category: model.CategoryOutdoor, ImageURL: "/static/images/outdoor/palm_tree.jpg", Rating: 4, StockQuantity: 10, Description: "This tropical palm brings exotic beauty to outdoor spaces with its fan-shaped or feathery fronds."},
		{SKU: "white-ceramic-pot", Name: "White Ceramic Pot", Price: 25.00, Category: model.CategoryPot, ImageURL: "/static/images/pot/ceramic-pot-white.jpg", Rating: 4, StockQuantity: 55, IsPopular: true, Description: "This modern white ceramic pot features a clean, minimalist design that complements any plant."},
		{SKU: "decorative-planter", Name: "Decorative Planter", Price: 32.00, Category: model.CategoryPot, ImageURL: "/static/images/pot/Latitude_Run.jpg", Rating: 4, StockQuantity: 22, IsNew: true, Description: "This elegant decorative planter features sophisticated styling perfect for modern homes."},
		{SKU: "garden-shears", Name: "Garden Shears", Price: 24.00, Category: model.CategoryAccessories, ImageURL: "/static/images/accessories/Garden_Shears.jpg", Rating: 5, StockQuantity: 38, IsPopular: true, Description: "Professional-grade garden shears with sharp stainless steel blades and comfortable ergonomic handles."},
		{SKU: "watering-can", Name: "Watering Can", Price: 35.00, OriginalPrice: floatPtr(42.00), Category: model.CategoryAccessories, ImageURL: "/static/images/accessories/Bloom_Pine_Watering_Can.jpg", Rating: 4, StockQuantity: 26, IsOnSale: true, Description: "This elegant vintage-style watering can combines functionality with aesthetic appeal."},
		{SKU: "gardening-gloves", Name: "Gardening Gloves", Price: 15.00, Category: model.CategoryAccessories, ImageURL: "/static/images/accessories/Gardening_Gloves.jpg", Rating: 4, StockQuantity: 70, Description: "Durable and comfortable gardening gloves that protect your hands while maintaining dexterity."},
		{SKU: "modern-planter-set", Name: "Modern Planter Set", Price: 42.00, Category: model.CategoryPot, ImageURL: "/static/images/pot/Stewart_Garden.jpg", Rating: 5, StockQuantity: 18, IsNew: true, Description: "This contemporary planter set offers versatile styling for both indoor and outdoor use."},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
