package recipe

import (
	"fmt"
	"strings"
)

// BuildPrompt 產生送給生成模型的提示詞
func BuildPrompt(req RecipeRequest) string {
	return fmt.Sprintf(`Generate a detailed recipe with the following details:
- Portion size: %s
- Category: %s
- Difficulty: %s
- Ingredients: %s

Format the response as **valid JSON** only, including nested nutritionalInfo object:
{
  "title": "Recipe title",
  "description": ["bullet point 1", "bullet point 2"],
  "ingredients": [{ "item": "x", "amount": "y", "unit": "z" }],
  "instructions": ["step 1", "step 2", "step 3"],
  "nutritionalInfo": { "calories": 0, "protein": 0, "fat": 0, "carbs": 0 }
}`,
		req.PortionSize,
		req.Category,
		req.Difficulty,
		strings.Join(req.Ingredients, ", "),
	)
}
