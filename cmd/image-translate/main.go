// Command image-translate extracts the text of one image and translates it.
//
//	image-translate -image receipt.png -from en-GB -to es-ES
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ocr/engines"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/translation"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/modules/translator/services"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()

	var imagePath, from, to string
	var extractOnly, asJSON bool

	flag.StringVar(&imagePath, "image", "", "Path of the image to read (required)")
	flag.StringVar(&from, "from", cfg.DefaultSourceLang, "Source language code")
	flag.StringVar(&to, "to", cfg.DefaultTargetLang, "Target language code")
	flag.BoolVar(&extractOnly, "extract-only", false, "Print the extracted text and skip translation")
	flag.BoolVar(&asJSON, "json", false, "Print the final session state as JSON")
	flag.Parse()

	// Logs go to stderr; keep them quiet unless asked
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	utils.InitLogger(level, cfg.Env)

	if imagePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	extractor, err := engines.NewManager(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OCR engine")
	}
	translator, err := translation.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize translator")
	}

	last := -1
	o := services.NewOrchestrator(extractor, translator, services.OrchestratorOptions{
		SourceLanguage:     cfg.DefaultSourceLang,
		TargetLanguage:     cfg.DefaultTargetLang,
		ExtractionTimeout:  cfg.ExtractionTimeout,
		TranslationTimeout: cfg.TranslationTimeout,
		OnProgress: func(p ocr.Progress) {
			if p.Percent != last {
				fmt.Fprintf(os.Stderr, "\r%s: %3d%%", p.Phase, p.Percent)
				last = p.Percent
			}
		},
	})
	if err := o.SetLanguages(from, to); err != nil {
		log.Fatal().Err(err).Msg("invalid language pair, see GET /languages for the codes")
	}

	file, err := os.Open(imagePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open image")
	}
	defer file.Close()

	ctx := context.Background()
	ingestor := ingest.NewIngestor(&ingest.Options{MaxSize: cfg.MaxUploadBytes})
	payload, err := ingestor.Ingest(ctx, file, filepath.Base(imagePath), "")
	if err != nil {
		log.Fatal().Err(err).Str("image", imagePath).Msg("cannot use image")
	}

	text, err := o.ProcessImage(ctx, payload)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, services.ExtractionErrorMessage)
		log.Error().Err(err).Msg("text extraction failed")
		os.Exit(1)
	}

	if !extractOnly {
		if _, err := o.Translate(ctx); err != nil {
			fmt.Fprintln(os.Stderr, services.TranslationErrorMessage)
			log.Error().Err(err).Msg("translation failed")
			os.Exit(1)
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(o.Snapshot()); err != nil {
			log.Fatal().Err(err).Msg("failed to encode result")
		}
		return
	}

	snap := o.Snapshot()
	fmt.Printf("[%s]\n%s\n", snap.SourceLanguageName, text)
	if !extractOnly {
		fmt.Printf("\n[%s]\n%s\n", snap.TargetLanguageName, snap.TargetText)
	}
}
