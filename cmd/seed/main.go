package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Дефолтные тэги платформы. Цвета совпадают с палитрой фронта.
var defaultTags = []catalog.CreateTagRequest{
	{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Обед", Color: "#49B64E", Slug: "lunch"},
	{Name: "Ужин", Color: "#8775D2", Slug: "dinner"},
}

func main() {
	csvPath := flag.String("ingredients", "data/ingredients.csv", "path to ingredients CSV (name,measurement_unit)")
	withAdmin := flag.Bool("admin", false, "create default admin account")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()

	n, err := importIngredients(db, *csvPath)
	if err != nil {
		log.Fatal("ingredients import failed:", err)
	}
	log.Printf("Ingredients imported: %d", n)

	catalogService := catalog.NewService(
		repository.NewTagRepository(db),
		repository.NewIngredientRepository(db),
	)
	for _, req := range defaultTags {
		if _, err := catalogService.CreateTag(ctx, req); err != nil {
			// тэг уже есть — не ошибка при повторном запуске
			log.Printf("tag %q skipped: %v", req.Slug, err)
			continue
		}
		log.Printf("Tag created: %s", req.Slug)
	}

	if *withAdmin {
		if err := createAdmin(db); err != nil {
			log.Fatal("admin creation failed:", err)
		}
	}
}

// importIngredients загружает справочник из CSV (name,measurement_unit).
// Повторный запуск безопасен: конфликт по (name, unit) просто пропускается.
func importIngredients(db *gorm.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	imported := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, err
		}

		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.Ingredient{
			Name:            record[0],
			MeasurementUnit: record[1],
		})
		if res.Error != nil {
			return imported, res.Error
		}
		imported += int(res.RowsAffected)
	}
	return imported, nil
}

func createAdmin(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.User{
		Email:        "admin@foodgram.local",
		Username:     "admin",
		FirstName:    "Администратор",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Println("Admin created: admin@foodgram.local / admin123")
	}
	return nil
}
