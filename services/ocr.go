package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type OCRConfig struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Languages   string // default "fra+eng"
	TessdataDir string
	TempDir     string // default os.TempDir()
}

// OCRConfigFromEnv builds the extraction config from environment variables.
func OCRConfigFromEnv() OCRConfig {
	return OCRConfig{
		Tesseract:   os.Getenv("TESSERACT_PATH"),
		Languages:   os.Getenv("OCR_LANGUAGES"),
		TessdataDir: os.Getenv("TESSDATA_DIR"),
	}
}

// OCRService wraps the external tesseract engine. It holds no state across
// requests; the only managed resource is the temporary file written per call.
type OCRService struct {
	cfg    OCRConfig
	runner Runner
}

func NewOCRService(cfg OCRConfig) *OCRService {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = "fra+eng"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &OCRService{cfg: cfg, runner: execRunner{}}
}

// ExtractText writes the uploaded document to a temporary file, runs the OCR
// engine on it and returns the raw text. The temporary file is removed on
// every exit path. Engine failures surface as *ExtractionError; a hit of the
// context deadline surfaces as *TimeoutError.
func (s *OCRService) ExtractText(ctx context.Context, document io.Reader, filename string) (string, error) {
	tmpPath := filepath.Join(s.cfg.TempDir, "contract_upload_"+uuid.NewString()+filepath.Ext(filename))

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return "", &ExtractionError{Filename: filename, Err: fmt.Errorf("create temp file: %w", err)}
	}
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, document); err != nil {
		tmp.Close()
		return "", &ExtractionError{Filename: filename, Err: fmt.Errorf("save upload: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return "", &ExtractionError{Filename: filename, Err: fmt.Errorf("save upload: %w", err)}
	}

	args := []string{tmpPath, "stdout", "-l", s.cfg.Languages}
	if s.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", s.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := s.runner.Run(ctx, s.cfg.Tesseract, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{Filename: filename, Err: err}
		}
		return "", &ExtractionError{Filename: filename, Err: fmt.Errorf("tesseract: %w (stderr: %s)", err, truncate(string(errb), 1<<10))}
	}

	return string(out), nil
}

// ParseContract runs text extraction followed by field parsing and returns
// the draft contract fields for human review. Parsing itself never fails;
// any error comes from the extraction step.
func (s *OCRService) ParseContract(ctx context.Context, document io.Reader, filename string) (ExtractedFields, error) {
	text, err := s.ExtractText(ctx, document, filename)
	if err != nil {
		return ExtractedFields{}, err
	}
	return ParseContractFields(text), nil
}
