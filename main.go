package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"document-engine/internal/common/logging"
	"document-engine/internal/config"
	"document-engine/internal/expression"
	"document-engine/internal/preview"
	"document-engine/internal/render"
	"document-engine/internal/template"
	"document-engine/internal/validation"
)

func main() {
	// .env is optional; the environment wins over it either way.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "document-engine",
		Usage: "validate, render and preview declarative document templates",
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "check a template and print its issues and scores",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Required: true, Usage: "template JSON file"},
				},
				Action: validateAction,
			},
			{
				Name:  "render",
				Usage: "render a template to a PDF file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Required: true, Usage: "template JSON file"},
					&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "data context JSON file"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "out.pdf", Usage: "output PDF path"},
				},
				Action: renderAction,
			},
			{
				Name:  "preview",
				Usage: "generate a preview and print it as a data URI or write it to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Required: true, Usage: "template JSON file"},
					&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "data context JSON file"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: preview.FormatPDF, Usage: "pdf, image, thumbnail, html or json"},
					&cli.IntFlag{Name: "page", Value: 1, Usage: "page to rasterize for image previews"},
					&cli.Float64Flag{Name: "dpi", Value: preview.DefaultDPI, Usage: "raster resolution"},
					&cli.BoolFlag{Name: "sample-data", Usage: "synthesize sample data when no data file is given"},
					&cli.BoolFlag{Name: "data-uri", Usage: "print a data: URI instead of writing bytes"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output path for binary formats"},
				},
				Action: previewAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads the engine configuration and installs the process logger.
func bootstrap() (*config.Config, logging.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Prefix: "document-engine",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetGlobalLogger(logger)
	return cfg, logger, nil
}

func loadTemplate(path string) (*template.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return template.ParseJSON(raw)
}

func loadData(path string) (expression.Data, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data %s: %w", path, err)
	}
	var data expression.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid data JSON in %s: %w", path, err)
	}
	return data, nil
}

func validateAction(c *cli.Context) error {
	cfg, err := loadTemplate(c.String("template"))
	if err != nil {
		return err
	}

	report := validation.Validate(cfg)
	printIssues("ERROR", report.Errors)
	printIssues("WARNING", report.Warnings)
	printIssues("INFO", report.Info)
	fmt.Printf("performance score: %.0f\n", report.PerformanceScore)
	fmt.Printf("security score:    %.0f\n", report.SecurityScore)

	if !report.IsValid {
		return cli.Exit("template is not renderable", 1)
	}
	fmt.Println("template is valid")
	return nil
}

func printIssues(label string, issues []validation.Issue) {
	for _, issue := range issues {
		fmt.Printf("%s %s: %s", label, issue.Path, issue.Message)
		if issue.Suggestion != "" {
			fmt.Printf(" (did you mean %s?)", issue.Suggestion)
		}
		fmt.Println()
	}
}

func renderAction(c *cli.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	tpl, err := loadTemplate(c.String("template"))
	if err != nil {
		return err
	}
	data, err := loadData(c.String("data"))
	if err != nil {
		return err
	}

	out, err := os.Create(c.String("output"))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.String("output"), err)
	}
	defer out.Close()

	engine := render.NewEngine(cfg, logger)
	if err := engine.RenderTo(tpl, data, out); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", c.String("output"))
	return nil
}

func previewAction(c *cli.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	tpl, err := loadTemplate(c.String("template"))
	if err != nil {
		return err
	}
	data, err := loadData(c.String("data"))
	if err != nil {
		return err
	}

	pcfg := preview.DefaultConfig()
	pcfg.Format = c.String("format")
	pcfg.Page = c.Int("page")
	pcfg.DPI = c.Float64("dpi")
	pcfg.GenerateSampleData = c.Bool("sample-data")

	engine := preview.NewEngine(cfg, logger)
	result := engine.Generate(tpl, pcfg, data)
	if !result.Success {
		return cli.Exit(result.ErrorMessage, 1)
	}

	if c.Bool("data-uri") {
		uri, err := preview.BuildDataURI(result)
		if err != nil {
			return err
		}
		fmt.Println(uri)
		return nil
	}

	switch payload := result.Data.(type) {
	case []byte:
		path := c.String("output")
		if path == "" {
			path = "preview." + extensionFor(result.Format)
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", path, result.SizeBytes)
	case string:
		fmt.Println(payload)
	default:
		serialized, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(serialized))
	}
	return nil
}

func extensionFor(format string) string {
	if format == preview.FormatPDF {
		return "pdf"
	}
	return "png"
}
