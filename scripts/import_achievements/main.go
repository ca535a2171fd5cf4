package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/internal/repositories"
)

// Imports extra achievement definitions from a spreadsheet. Expected
// columns: id, name, description, category, condition_type,
// condition_value, reward_coins, reward_title (optional).
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import_achievements <xlsx file>")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"), sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	repo := repositories.NewAchievementRepository(db)
	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 7 { // Skip header or invalid rows
				continue
			}

			conditionValue, err := strconv.ParseInt(row[5], 10, 64)
			if err != nil {
				fmt.Printf("Invalid condition value %q in row %d\n", row[5], i)
				continue
			}
			rewardCoins, err := strconv.ParseInt(row[6], 10, 64)
			if err != nil {
				fmt.Printf("Invalid reward coins %q in row %d\n", row[6], i)
				continue
			}
			rewardTitle := ""
			if len(row) > 7 {
				rewardTitle = row[7]
			}

			achievement := models.Achievement{
				ID:             row[0],
				Name:           row[1],
				Description:    row[2],
				Category:       row[3],
				ConditionType:  row[4],
				ConditionValue: conditionValue,
				RewardCoins:    rewardCoins,
				RewardTitle:    rewardTitle,
			}

			if err := repo.UpsertAchievement(&achievement); err != nil {
				fmt.Printf("Error importing achievement in row %d: %v\n", i, err)
			} else {
				totalImported++
			}
		}
	}

	fmt.Printf("Successfully imported %d achievements.\n", totalImported)
}
