package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	"timeseer/internal/services"
	"timeseer/internal/validation"
	api "timeseer/pkg/contracts/api/v1"
)

// runAPIMode reads {data, column, config} from opts.input, runs the analysis
// and writes the result document to opts.output. A read or parse failure
// still writes an error document before exiting 1.
func runAPIMode(c *cli, opts *rootOptions) error {
	if opts.input == "" || opts.output == "" {
		fmt.Fprintln(c.stdout, "Error: --input and --output are required in API mode")
		return &exitError{code: 1}
	}

	files := validation.NewFileValidator(c.logger)
	if err := files.ValidateOutputFile(opts.output); err != nil {
		fmt.Fprintf(c.stdout, "Error in API mode: %v\n", err)
		return &exitError{code: 1}
	}

	req, err := readAnalyzeRequest(files, opts.input)
	if err != nil {
		fmt.Fprintf(c.stdout, "Error in API mode: %v\n", err)
		if werr := writeJSON(opts.output, api.FailedAnalysis(err)); werr != nil {
			c.logger.Error("failed to write error document",
				slog.String("path", opts.output),
				slog.String("error", werr.Error()))
		}
		return &exitError{code: 1}
	}

	result := c.newAnalyzer().RunAPIAnalysis(req.Data, req.Column, req.Config)
	if err := writeJSON(opts.output, result); err != nil {
		fmt.Fprintf(c.stdout, "Error in API mode: %v\n", err)
		return &exitError{code: 1}
	}

	fmt.Fprintf(c.stdout, "Analysis complete. Results saved to %s\n", opts.output)
	return nil
}

func readAnalyzeRequest(files *validation.FileValidator, path string) (api.AnalyzeRequest, error) {
	if err := files.ValidateFile(path); err != nil {
		return api.AnalyzeRequest{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return api.AnalyzeRequest{}, err
	}
	defer f.Close()
	return services.DecodeAnalyzeRequest(f)
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
