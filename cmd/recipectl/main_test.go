package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const rawResponse = "```json\n" + `{
  "title": "Tomato Egg",
  "description": "Quick stir fry",
  "ingredients": [{"item": "tomato", "amount": "2", "unit": ""}, "eggs"],
  "instructions": ["Beat eggs", "Cook tomato"],
  "nutritionalInfo": {"calories": "210kcal", "protein": 12.345, "fat": 9, "carbs": null},
}` + "\n```"

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommand(strings.NewReader(stdin), &out)
	err := cmd.Run(context.Background(), append([]string{"recipectl"}, args...))
	return out.String(), err
}

func TestNormalizeFromStdin(t *testing.T) {
	out, err := runCLI(t, rawResponse,
		"normalize", "--ingredients", "tomato,eggs", "--portion", "2", "--category", "Vegetarian", "--difficulty", "easy")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, common.ParseJSON(out, &got))
	assert.Equal(t, "Tomato Egg", got["title"])
	assert.Equal(t, "vegetarian", got["category"])
	assert.Equal(t, "2", got["portionSize"])
	assert.Equal(t, []any{"Quick stir fry"}, got["description"])
	assert.Equal(t, []any{"2 tomato", "eggs"}, got["ingredients"])

	nutrition := got["nutritionalInfo"].(map[string]any)
	assert.Equal(t, json.Number("210"), nutrition["calories"])
	assert.Equal(t, json.Number("12.35"), nutrition["protein"])
	assert.Equal(t, json.Number("9"), nutrition["fat"])
	assert.Equal(t, json.Number("0"), nutrition["carbs"])
}

func TestNormalizeFromFileAsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.txt")
	require.NoError(t, os.WriteFile(path, []byte(rawResponse), 0o600))

	out, err := runCLI(t, "", "normalize", "--file", path, "--portion", "1", "--format", "yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Tomato Egg", got["title"])
	assert.Equal(t, "other", got["category"])
	assert.Contains(t, out, "nutritionalInfo:")
}

func TestNormalizeFailures(t *testing.T) {
	_, err := runCLI(t, "Sorry, I can't do that.", "normalize")
	assert.True(t, recipe.IsKind(err, recipe.MalformedResponseError))

	_, err = runCLI(t, `{"description": ["x"], "ingredients": [], "instructions": []}`, "normalize")
	assert.True(t, recipe.IsKind(err, recipe.AssemblyError))

	_, err = runCLI(t, rawResponse, "normalize", "--format", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = runCLI(t, "", "normalize", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read")
}

func TestNormalizeRejectsUnknownDifficulty(t *testing.T) {
	out, err := runCLI(t, rawResponse, "normalize", "--portion", "2", "--difficulty", "Hard")
	require.NoError(t, err)
	assert.Contains(t, out, `"difficulty": "hard"`)

	_, err = runCLI(t, rawResponse, "normalize", "--portion", "2", "--difficulty", "extreme")
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestReportErrorIncludesRawResponse(t *testing.T) {
	const raw = "Sorry, I can't do that."
	_, err := runCLI(t, raw, "normalize")
	require.Error(t, err)

	var buf bytes.Buffer
	reportError(&buf, err)
	assert.Contains(t, buf.String(), err.Error())
	assert.Contains(t, buf.String(), "raw response:\n"+raw)

	buf.Reset()
	reportError(&buf, errors.New("plain failure"))
	assert.Equal(t, "plain failure\n", buf.String())
}

func TestRequestFromFlags(t *testing.T) {
	var got recipe.RecipeRequest
	cmd := newCommand(strings.NewReader(""), &bytes.Buffer{})
	for _, sub := range cmd.Commands {
		if sub.Name == "normalize" {
			sub.Action = func(_ context.Context, c *cli.Command) error {
				got = requestFromCmd(c)
				return nil
			}
		}
	}

	err := cmd.Run(context.Background(), []string{"recipectl", "normalize", "-i", "rice", "-i", "egg, scallion", "--difficulty", "hard"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rice", "egg", "scallion"}, got.Ingredients)
	assert.Equal(t, "hard", got.Difficulty)
	assert.Equal(t, "other", got.Category)
}
