package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 欄位長度上限，與下方 gorm size 標籤一致
const (
	MaxTitleLength       = 255
	MaxPortionSizeLength = 100
)

// DefaultImage 未生成圖片前的預設食譜圖片
const DefaultImage = "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcQ0EbtAMkvjstpwiT8oSwwiPDJXVpC_KAaHdw&s"

// Category 食譜分類，只允許固定列舉值
type Category string

const (
	CategoryVegetarian    Category = "vegetarian"
	CategoryNonVegetarian Category = "non-vegetarian"
	CategoryVegan         Category = "vegan"
	CategorySpicy         Category = "spicy"
	CategoryOther         Category = "other"
)

// Categories 所有合法分類
var Categories = []Category{
	CategoryVegetarian,
	CategoryNonVegetarian,
	CategoryVegan,
	CategorySpicy,
	CategoryOther,
}

// Valid 檢查分類是否屬於列舉
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Difficulty 難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid 檢查難度是否屬於列舉
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// StringArray is stored as a JSON encoded text column.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported StringArray source %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// NutritionalInfo 營養資訊，每個值皆為非負且最多兩位小數
type NutritionalInfo struct {
	Calories float64 `gorm:"default:0" json:"calories"`
	Protein  float64 `gorm:"default:0" json:"protein"`
	Fat      float64 `gorm:"default:0" json:"fat"`
	Carbs    float64 `gorm:"default:0" json:"carbs"`
}

// Rating 使用者評分
type Rating struct {
	User   string `json:"user"`
	Rating int    `json:"rating"`
}

// Recipe 持久化的食譜實體
type Recipe struct {
	ID              string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     StringArray     `gorm:"type:text;not null" json:"description"`
	Ingredients     StringArray     `gorm:"type:text;not null" json:"ingredients"`
	Instructions    StringArray     `gorm:"type:text;not null" json:"instructions"`
	PortionSize     string          `gorm:"size:100" json:"portionSize"`
	Category        Category        `gorm:"size:32;index;default:other" json:"category"`
	Difficulty      Difficulty      `gorm:"size:16" json:"difficulty"`
	NutritionalInfo NutritionalInfo `gorm:"embedded;embeddedPrefix:nutrition_" json:"nutritionalInfo"`
	Image           string          `gorm:"size:512" json:"image"`
	Ratings         []Rating        `gorm:"serializer:json;type:text" json:"ratings"`
	AverageRating   float64         `gorm:"default:0" json:"averageRating"`
	SavedBy         StringArray     `gorm:"type:text" json:"savedBy"`
	Tags            StringArray     `gorm:"type:text" json:"tags"`
	Cuisine         string          `gorm:"size:100" json:"cuisine"`
}

// BeforeCreate 指派主鍵並補上輔助欄位的預設值
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Image == "" {
		r.Image = DefaultImage
	}
	if r.Category == "" {
		r.Category = CategoryOther
	}
	if r.Ratings == nil {
		r.Ratings = []Rating{}
	}
	if r.SavedBy == nil {
		r.SavedBy = StringArray{}
	}
	if r.Tags == nil {
		r.Tags = StringArray{}
	}
	return nil
}
