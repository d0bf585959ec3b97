// Package export renders a task list snapshot as json, csv, yaml or pdf.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"taskmgr/internal/controller"
	"taskmgr/internal/service"
)

// Formats lists the supported format names.
var Formats = []string{"json", "csv", "yaml", "pdf"}

// Supported reports whether format names one of Formats (yml is accepted for yaml).
func Supported(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "csv", "yaml", "yml", "pdf":
		return true
	}
	return false
}

// Export renders tasks in the given format.
func Export(tasks []service.Task, format string) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "csv":
		return exportCSV(tasks)
	case "yaml", "yml":
		return yaml.Marshal(tasks)
	case "pdf":
		return exportPDF(tasks)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func exportCSV(tasks []service.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "title", "description"}); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err := w.Write([]string{strconv.FormatInt(t.ID, 10), t.Title, t.Description}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(tasks []service.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Task Manager", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Task Manager", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 8, controller.EmptyMessage, "", 1, "C", false, 0, "")
	}

	for _, t := range tasks {
		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("#%d  %s", t.ID, controller.DisplayTitle(t.Title))), "", "L", false)
		if t.Description != "" {
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, tr(t.Description), "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
