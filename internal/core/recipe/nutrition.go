package recipe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"recipe-catalog/internal/models"
)

// CoerceNutrient 將任意輸入轉為非負、最多兩位小數的數值。
// 缺值或 falsy 值為 0；其餘轉成文字後只保留數字與小數點，取最長可解析前綴。
func CoerceNutrient(v any) float64 {
	if isFalsy(v) {
		return 0
	}

	var text string
	switch t := v.(type) {
	case string:
		text = t
	case json.Number:
		text = t.String()
		if f, err := t.Float64(); err == nil {
			text = strconv.FormatFloat(f, 'f', -1, 64)
		}
	case float64:
		text = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		text = strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		text = fmt.Sprint(t)
	}

	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	n, ok := roundHalfUp(numericPrefix(b.String()))
	if !ok {
		return 0
	}
	return n
}

// numericPrefix 取出「數字、最多一個小數點」的最長前綴，例如 "1.5.2" 得到 "1.5"
func numericPrefix(s string) string {
	dot := false
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			if dot {
				return s[:i]
			}
			dot = true
		}
	}
	return s
}

// roundHalfUp 以十進位文字四捨五入到兩位小數，12.345 得到 12.35
func roundHalfUp(s string) (float64, bool) {
	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "" && frac == "" {
		return 0, false
	}
	if intPart == "" {
		intPart = "0"
	}

	roundUp := false
	if len(frac) > 2 {
		roundUp = frac[2] >= '5'
		frac = frac[:2]
	}

	text := intPart
	if frac != "" {
		text += "." + frac
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	if roundUp {
		n, err = strconv.ParseFloat(strconv.FormatFloat(n+0.01, 'f', 2, 64), 64)
		if err != nil || math.IsInf(n, 0) {
			return 0, false
		}
	}
	return n, true
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0 || math.IsNaN(t)
	case int:
		return t == 0
	}
	return false
}

// CoerceNutrition 對四個營養欄位分別套用 CoerceNutrient
func CoerceNutrition(raw map[string]any) models.NutritionalInfo {
	if raw == nil {
		return models.NutritionalInfo{}
	}
	return models.NutritionalInfo{
		Calories: CoerceNutrient(raw["calories"]),
		Protein:  CoerceNutrient(raw["protein"]),
		Fat:      CoerceNutrient(raw["fat"]),
		Carbs:    CoerceNutrient(raw["carbs"]),
	}
}
