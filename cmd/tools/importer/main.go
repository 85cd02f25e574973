package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// legacyItem is one line of the historical price_list.json export. Field
// names follow the legacy Ukrainian schema; numbers sometimes arrive as
// strings, hence flexNumber.
type legacyItem struct {
	Category         string      `json:"категорія"`
	Number           *flexNumber `json:"№"`
	Name             string      `json:"найменування_виробу"`
	Unit             string      `json:"од_виміру"`
	StandardPrice    *flexNumber `json:"вартість_замовлення"`
	PriceWithDetails *flexNumber `json:"вартість_з_деталями"`
	PriceMax         *flexNumber `json:"вартість_максимальна"`
	BlackColorPrice  *flexNumber `json:"вартість_чорний_колір"`
	OtherColorPrice  *flexNumber `json:"вартість_інші_кольори"`
	Coefficient      *flexNumber `json:"коефіцієнт"`
	CoefficientMin   *flexNumber `json:"коефіцієнт_мін"`
	CoefficientMax   *flexNumber `json:"коефіцієнт_макс"`
}

type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", s, err)
	}
	*n = flexNumber(v)
	return nil
}

func (n *flexNumber) value() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

func (n *flexNumber) intValue() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

func main() {
	filePath := flag.String("file", "price_list.json", "path to the legacy price list export (one JSON object per line)")
	truncate := flag.Bool("truncate", false, "delete existing price list rows before importing")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *filePath, err)
	}
	defer file.Close()

	if *truncate {
		if _, err := pool.Exec(ctx, "DELETE FROM price_list"); err != nil {
			log.Fatalf("Failed to truncate price_list: %v", err)
		}
		log.Println("Cleared existing price list")
	}

	imported, skipped := 0, 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		var item legacyItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Printf("line %d: skipping, bad JSON: %v", lineNo, err)
			skipped++
			continue
		}
		if item.Category == "" || item.Name == "" {
			log.Printf("line %d: skipping, category and name are required", lineNo)
			skipped++
			continue
		}

		if err := insertItem(ctx, pool, item); err != nil {
			log.Printf("line %d: skipping %q: %v", lineNo, item.Name, err)
			skipped++
			continue
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed reading %s: %v", *filePath, err)
	}

	log.Printf("Import finished: %d imported, %d skipped", imported, skipped)
}

// legacyCategories maps the historical category names onto the canonical
// ones the API serves. Categories not listed here are kept as-is.
var legacyCategories = map[string]string{
	"коефіцієнти":                       "coefficients",
	"додатково_для_текстильних_виробів": "textile_extras",
	"додатково_для_шкіряних_виробів":    "leather_extras",
}

func canonicalCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := legacyCategories[trimmed]; ok {
		return canonical
	}
	return trimmed
}

func insertItem(ctx context.Context, pool *pgxpool.Pool, item legacyItem) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO price_list (
			id, category, item_no, name, unit,
			standard_price, price_with_details, price_max,
			black_color_price, other_color_price,
			coefficient, coefficient_min, coefficient_max
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		uuid.NewString(),
		canonicalCategory(item.Category),
		item.Number.intValue(),
		strings.TrimSpace(item.Name),
		strings.TrimSpace(item.Unit),
		item.StandardPrice.value(),
		item.PriceWithDetails.value(),
		item.PriceMax.value(),
		item.BlackColorPrice.value(),
		item.OtherColorPrice.value(),
		item.Coefficient.value(),
		item.CoefficientMin.value(),
		item.CoefficientMax.value(),
	)
	return err
}
