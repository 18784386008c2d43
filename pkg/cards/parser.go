// parser.go — Sample files for laylacards init.
package cards

import (
	"encoding/json"
)

// GetExampleFiles returns a sample dishes.csv and layout.json.
func GetExampleFiles() (dishesCSV, layoutJSON string) {
	dishesCSV = `name_en,name_ar,calories_kcal,carbs_g,protein_g,fat_g,gluten,protein_type,dairy
Grilled Chicken,دجاج مشوي,420,6,48,22,gluten_free,meat,dairy_free
Chicken Shawarma Wrap,شاورما دجاج,610,52,38,26,gluten,meat,dairy
Falafel Plate,صحن فلافل,540,58,18,27,gluten,veg,dairy_free
Hummus,حمص,166,14.3,7.9,9.6,gluten_free,veg,dairy_free
Fattoush,فتوش,180,21,4,9.5,gluten,veg,dairy_free
Lamb Kofta,كفتة لحم,480,8,34,35,gluten_free,meat,dairy
Kunafa,كنافة,450,54,9,22,gluten,veg,dairy
`
	// The sample spells out the page size, so it carries no preset: editing
	// page_width_mm or page_height_mm takes effect as written.
	cfg := DefaultConfig()
	cfg.PagePreset = ""
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		// DefaultConfig holds only plain values.
		panic(err)
	}
	layoutJSON = string(data) + "\n"
	return
}
