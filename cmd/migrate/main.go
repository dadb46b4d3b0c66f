package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"trashify/internal/dto"
	"trashify/internal/ewaste"
	"trashify/internal/repository/sqlite"
	"trashify/internal/services/detection"
)

// migrate imports saved /api/detect responses (*.json) into the upload ledger
// and prints the resulting statistics report.
func main() {
	input := flag.String("input", "results", "JSON file or directory of saved detection responses")
	dbPath := flag.String("db", "data/ledger.db", "Ledger database path")
	flag.Parse()

	files, err := collectFiles(*input)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	fmt.Printf("Importing detection results from %s into %s\n", *input, *dbPath)

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var entries []dto.LedgerEntry
	skipped := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v", path, err)
			skipped++
			continue
		}

		resp, err := detection.ParseDetectionResponse(data)
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v", path, err)
			skipped++
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			log.Printf("⚠️  Failed to get info for %s: %v", path, err)
			skipped++
			continue
		}

		entries = append(entries, dto.LedgerEntry{
			Filename:          strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			ReceivedAt:        receivedAt(resp, info.ModTime()),
			AnnotatedImageRef: resp.AnnotatedImageRef,
			Detections:        resp.Detections,
		})
	}

	if len(entries) == 0 {
		fmt.Printf("No detection results found to import (%d skipped)\n", skipped)
		return
	}

	uploads := sqlite.NewUploadRepository(db)
	fmt.Printf("Inserting %d uploads into the ledger...\n", len(entries))
	if err := uploads.RecordBatch(entries); err != nil {
		log.Fatalf("Failed to insert uploads: %v", err)
	}
	fmt.Printf("✅ Successfully imported %d uploads (%d skipped)\n", len(entries), skipped)

	summary, err := uploads.GetStats()
	if err != nil {
		log.Fatalf("Failed to read ledger stats: %v", err)
	}
	printReport(ewaste.NewReporter(ewaste.NewEstimator(ewaste.DefaultImpactFactors())).Report(*summary))
}

// collectFiles returns path itself or the *.json files directly inside it, sorted.
func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// receivedAt prefers the response timestamp (unix seconds) over the file time.
func receivedAt(resp *dto.DetectionResponse, fallback time.Time) time.Time {
	if resp.Timestamp > 0 {
		return time.Unix(resp.Timestamp, 0)
	}
	return fallback
}

func printReport(report ewaste.StatsReport) {
	fmt.Println()
	fmt.Printf("Images processed:  %d\n", report.TotalProcessedImages)
	fmt.Printf("Items detected:    %d\n", report.TotalDetections)
	fmt.Printf("Categories:        %d\n", report.CategoryCount)
	fmt.Printf("Avg processing:    %s\n", report.AvgProcessingTime)

	if len(report.Breakdown) > 0 {
		fmt.Println("\nBreakdown:")
		for _, line := range report.Breakdown {
			fmt.Printf("  %-20s %5d  %5.1f%%\n", line.DisplayName, line.Count, line.Percentage)
		}
	}

	fmt.Println("\nEnvironmental impact:")
	for _, line := range report.ImpactLines {
		fmt.Printf("  %-24s %-10s %s\n", line.Title+":", line.Value, line.Caption)
	}
}
