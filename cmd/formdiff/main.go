// Command formdiff extracts the interactive form-field structure of a
// PDF, or compares that structure across two versions of the same form
// and prints a field-level change report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/formlens/formdiff/internal/config"
	"github.com/formlens/formdiff/internal/report"
	"github.com/formlens/formdiff/internal/service"
	"github.com/formlens/formdiff/internal/store"
)

var (
	outputFormat    = flag.String("format", "text", "Output format: text, json")
	xlsxPath        = flag.String("xlsx", "", "Also write the comparison report to this XLSX file")
	tolerance       = flag.Float64("tolerance", config.DefaultPositionTolerance, "Per-edge position tolerance in coordinate units")
	normalizeLabels = flag.Bool("normalize-labels", false, "Case/whitespace-normalize labels before comparing")
	dbPath          = flag.String("db", "", "SQLite database to persist results (optional)")
	help            = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *help {
		printHelp()
		return
	}
	if flag.NArg() < 1 || flag.NArg() > 2 {
		fmt.Fprintf(os.Stderr, "Error: expected one PDF (extract) or two PDFs (compare)\n\n")
		printHelp()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	cfg.PositionTolerance = *tolerance
	cfg.NormalizeLabels = *normalizeLabels
	cfg.DatabasePath = *dbPath
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var st *store.Store
	if cfg.DatabasePath != "" {
		var err error
		st, err = store.Open(cfg.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
	}

	svc := service.New(cfg, st, nil)
	ctx := context.Background()

	var err error
	if flag.NArg() == 1 {
		err = runExtract(ctx, svc, flag.Arg(0))
	} else {
		err = runCompare(ctx, svc, flag.Arg(0), flag.Arg(1))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExtract(ctx context.Context, svc *service.Service, path string) error {
	ext, err := svc.ExtractFile(ctx, path)
	if err != nil {
		return err
	}

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ext)
	}

	fmt.Printf("Extracted %s\n", ext.Path)
	fmt.Printf("Pages: %d, fields: %d\n", ext.Result.Meta.PageCount, len(ext.Result.Fields))
	if ext.Empty {
		fmt.Println("The document is valid but contains no interactive form fields.")
		return nil
	}
	fmt.Println()
	for _, rec := range ext.Result.Fields {
		fmt.Printf("[p%d #%d] %s (%s)", rec.PageNumber, rec.PageOrder, rec.FieldID, rec.Type)
		if rec.NearText != nil {
			fmt.Printf("  label: %q", *rec.NearText)
		}
		if rec.ValueOptions != nil {
			fmt.Printf("  options: %v", rec.ValueOptions)
		}
		fmt.Println()
	}
	for _, d := range ext.Result.Diagnostics {
		fmt.Printf("warning: page %d, field %s: %s\n", d.PageNumber, d.FieldID, d.Message)
	}
	return nil
}

func runCompare(ctx context.Context, svc *service.Service, sourcePath, targetPath string) error {
	cmp, err := svc.CompareFiles(ctx, sourcePath, targetPath)
	if err != nil {
		return err
	}

	switch *outputFormat {
	case "json":
		data, err := report.JSON(cmp.Result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "text":
		fmt.Print(report.Text(cmp.Result, sourcePath, targetPath))
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}

	if *xlsxPath != "" {
		data, err := report.XLSX(cmp.Result, sourcePath, targetPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*xlsxPath, data, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote XLSX report to %s\n", *xlsxPath)
	}
	return nil
}

func printHelp() {
	fmt.Println("formdiff - structural diff of PDF form fields")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  formdiff [OPTIONS] <file.pdf>                 extract field structure")
	fmt.Println("  formdiff [OPTIONS] <old.pdf> <new.pdf>        compare two versions")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  formdiff form-2023.pdf")
	fmt.Println("  formdiff form-2023.pdf form-2024.pdf")
	fmt.Println("  formdiff -format json form-2023.pdf form-2024.pdf")
	fmt.Println("  formdiff -xlsx changes.xlsx form-2023.pdf form-2024.pdf")
}
