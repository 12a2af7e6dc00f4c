package recipe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"recipe-catalog/internal/pkg/common"
)

// FlattenIngredients 將字串或 {item, amount, unit} 物件組成的清單轉為字串清單。
// 輸出長度與順序與輸入相同。
func FlattenIngredients(items []any) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = flattenIngredient(it)
	}
	return out
}

func flattenIngredient(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return textOf(v)
	}

	parts := make([]string, 0, 3)
	for _, key := range []string{"amount", "unit", "item"} {
		if s := strings.TrimSpace(textOf(obj[key])); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// textOf 將 JSON 解析出的任意值轉為文字；物件與陣列以 JSON 表示
func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		s, err := common.ToJSON(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return s
	default:
		return fmt.Sprint(t)
	}
}
