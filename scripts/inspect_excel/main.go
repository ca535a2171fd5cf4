package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

// Prints the sheet layout of an achievement workbook so column order can
// be checked before running import_achievements.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: inspect_excel <file.xlsx>")
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		log.Fatal("no sheets found")
	}

	fmt.Printf("Sheets: %v\n", sheets)

	for _, sheetName := range sheets {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("\n[%s] %d rows\n", sheetName, len(rows))
		for i, row := range rows {
			if i > 5 {
				break
			}
			fmt.Printf("Row %d: %v\n", i, row)
		}
	}
}
