// Package notebook turns remote chart configs into Jupyter notebooks
// that reconstruct the chart declaratively.
package notebook

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Cell is one notebook cell in nbformat 4.
type Cell struct {
	Type   string
	Source string
}

// MarkdownCell returns a markdown cell.
func MarkdownCell(source string) Cell {
	return Cell{Type: "markdown", Source: source}
}

// CodeCell returns a code cell.
func CodeCell(source string) Cell {
	return Cell{Type: "code", Source: source}
}

// MarshalJSON encodes the cell in nbformat 4 shape. Code cells carry
// execution_count and outputs, markdown cells must not.
func (c Cell) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"cell_type": c.Type,
		"metadata":  map[string]any{},
		"source":    sourceLines(c.Source),
	}
	if c.Type == "code" {
		m["execution_count"] = nil
		m["outputs"] = []any{}
	}
	return json.Marshal(m)
}

// sourceLines splits source into the per-line list nbformat uses, each
// line keeping its trailing newline except the last.
func sourceLines(source string) []string {
	if source == "" {
		return []string{}
	}
	lines := strings.SplitAfter(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Document is a Jupyter notebook document.
type Document struct {
	Cells []Cell
}

// New builds a notebook for the given chart: an optional title cell,
// an import cell, a data-fetch cell, and the reconstructed chart source.
func New(slug, title, chartSource string) *Document {
	var cells []Cell

	if title != "" {
		cells = append(cells, MarkdownCell(fmt.Sprintf("# %s", title)))
	}

	cells = append(cells, CodeCell(strings.Join([]string{
		"import (",
		"    \"context\"",
		"",
		"    \"grapher\"",
		"    \"grapher/site\"",
		")",
	}, "\n")))

	cells = append(cells, CodeCell(fmt.Sprintf(
		"data, _ := site.NewClient().ChartDataBySlug(context.Background(), %q)\ndata", slug)))

	cells = append(cells, CodeCell(chartSource))

	return &Document{Cells: cells}
}

// MarshalJSON encodes the document in nbformat 4 with a gophernotes
// kernelspec.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"nbformat":       4,
		"nbformat_minor": 5,
		"metadata": map[string]any{
			"kernelspec": map[string]any{
				"display_name": "Go",
				"language":     "go",
				"name":         "gophernotes",
			},
			"language_info": map[string]any{
				"name":           "go",
				"file_extension": ".go",
				"mimetype":       "text/x-go",
			},
		},
		"cells": d.Cells,
	})
}

// JSON renders the document as indented notebook JSON.
func (d *Document) JSON() ([]byte, error) {
	raw, err := json.MarshalIndent(d, "", " ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode notebook: %w", err)
	}
	return raw, nil
}
