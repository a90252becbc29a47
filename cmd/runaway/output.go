package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"runaway-service/internal/models"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// render печатает v в выбранном формате; text использует переданную функцию
func render(w io.Writer, format string, v interface{}, text func() string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, text())
		return err
	}
}

func curveTable(curve models.Curve) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEMP\tDENSITY")
	for i, t := range curve.TempRange {
		fmt.Fprintf(tw, "%.3f\t%.6g\n", t, curve.Density[i])
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func groupsTable(summaries []models.GroupSummary) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CELL\tTRIGGER\tN\tMODE")
	for _, s := range summaries {
		mode := "-"
		if s.Mode != nil {
			mode = fmt.Sprintf("%.2f", *s.Mode)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.CellType, s.TriggerMechanism, s.SampleSize, mode)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}
