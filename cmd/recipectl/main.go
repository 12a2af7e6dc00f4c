// recipectl 食譜目錄的維運工具：離線正規化模型回應，或直接產生並儲存食譜。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"recipe-catalog/internal/app"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/models"
	"recipe-catalog/internal/pkg/common"

	"github.com/urfave/cli/v3"
)

// overridden during build with ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// reportError 輸出錯誤；模型回應無法解析時一併附上原始回應方便排查
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, err)
	var ie *recipe.IngestionError
	if errors.As(err, &ie) && ie.Raw != "" {
		fmt.Fprintf(w, "raw response:\n%s\n", ie.Raw)
	}
}

func requestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "ingredients",
			Aliases: []string{"i"},
			Usage:   "Ingredient, repeat or comma-separate for several (e.g. rice,egg)",
		},
		&cli.StringFlag{
			Name:  "portion",
			Usage: "Portion size (e.g. 2 servings)",
		},
		&cli.StringFlag{
			Name:  "category",
			Value: string(models.CategoryOther),
			Usage: "Recipe category (vegetarian, non-vegetarian, vegan, spicy, other)",
		},
		&cli.StringFlag{
			Name:  "difficulty",
			Value: "easy",
			Usage: "Difficulty (easy, medium, hard)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"o"},
			Value:   formatJSON,
			Usage:   "Output format (json, yaml)",
		},
	}
}

func newCommand(stdin io.Reader, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "recipectl",
		Usage:   "Recipe catalog operator tool",
		Version: version,
		Writer:  stdout,
		Commands: []*cli.Command{
			normalizeCmd(stdin, stdout),
			generateCmd(stdout),
		},
	}
}

func normalizeCmd(stdin io.Reader, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "normalize",
		Usage: "Turn a saved raw model response into a recipe without calling the model or the database",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Value:   "-",
				Usage:   "Path to the raw model response, - reads stdin",
			},
		}, requestFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			raw, err := readInput(stdin, cmd.String("file"))
			if err != nil {
				return err
			}

			r, err := recipe.Normalize(raw, requestFromCmd(cmd))
			if err != nil {
				return err
			}
			return writeOutput(stdout, cmd.String("format"), r)
		},
	}
}

func generateCmd(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Ask the configured model for a recipe and store it in the configured database",
		Flags: requestFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer common.Sync()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Ingestor == nil {
				return a.IngestErr
			}

			r, err := a.Ingestor.Ingest(ctx, requestFromCmd(cmd))
			if err != nil {
				return err
			}
			return writeOutput(stdout, cmd.String("format"), r)
		},
	}
}

func requestFromCmd(cmd *cli.Command) recipe.RecipeRequest {
	var ingredients []string
	for _, v := range cmd.StringSlice("ingredients") {
		for _, part := range strings.Split(v, ",") {
			ingredients = append(ingredients, strings.TrimSpace(part))
		}
	}
	return recipe.RecipeRequest{
		Ingredients: ingredients,
		PortionSize: cmd.String("portion"),
		Category:    cmd.String("category"),
		Difficulty:  cmd.String("difficulty"),
	}
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return string(data), nil
}
