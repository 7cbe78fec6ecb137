package notebook

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestNew(t *testing.T) {
	doc := New("life-expectancy", "Life expectancy", "grapher.NewChart(data)")

	if len(doc.Cells) != 4 {
		t.Fatalf("Expected 4 cells, got %d", len(doc.Cells))
	}
	if doc.Cells[0].Type != "markdown" || doc.Cells[0].Source != "# Life expectancy" {
		t.Errorf("Unexpected title cell: %+v", doc.Cells[0])
	}
	if !strings.Contains(doc.Cells[1].Source, `"grapher/site"`) {
		t.Errorf("Import cell missing site import: %q", doc.Cells[1].Source)
	}
	if !strings.Contains(doc.Cells[2].Source, `ChartDataBySlug(context.Background(), "life-expectancy")`) {
		t.Errorf("Unexpected fetch cell: %q", doc.Cells[2].Source)
	}
	if doc.Cells[3].Source != "grapher.NewChart(data)" {
		t.Errorf("Unexpected chart cell: %q", doc.Cells[3].Source)
	}
}

func TestNew_NoTitle(t *testing.T) {
	doc := New("life-expectancy", "", "grapher.NewChart(data)")

	if len(doc.Cells) != 3 {
		t.Fatalf("Expected 3 cells without a title, got %d", len(doc.Cells))
	}
	if doc.Cells[0].Type != "code" {
		t.Errorf("Expected first cell to be code, got %s", doc.Cells[0].Type)
	}
}

func TestDocumentJSON(t *testing.T) {
	doc := New("life-expectancy", "Life expectancy", "grapher.NewChart(data)")

	raw, err := doc.JSON()
	if err != nil {
		t.Fatalf("JSON() returned unexpected error: %v", err)
	}

	var parsed struct {
		NBFormat int `json:"nbformat"`
		Metadata struct {
			Kernelspec struct {
				Name     string `json:"name"`
				Language string `json:"language"`
			} `json:"kernelspec"`
		} `json:"metadata"`
		Cells []map[string]any `json:"cells"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("Failed to parse notebook JSON: %v", err)
	}

	if parsed.NBFormat != 4 {
		t.Errorf("Expected nbformat 4, got %d", parsed.NBFormat)
	}
	if parsed.Metadata.Kernelspec.Name != "gophernotes" {
		t.Errorf("Expected gophernotes kernelspec, got %s", parsed.Metadata.Kernelspec.Name)
	}
	if parsed.Metadata.Kernelspec.Language != "go" {
		t.Errorf("Expected go kernel language, got %s", parsed.Metadata.Kernelspec.Language)
	}
	if len(parsed.Cells) != 4 {
		t.Fatalf("Expected 4 cells, got %d", len(parsed.Cells))
	}

	if parsed.Cells[0]["cell_type"] != "markdown" {
		t.Errorf("Expected markdown first cell, got %v", parsed.Cells[0]["cell_type"])
	}
	if _, ok := parsed.Cells[0]["outputs"]; ok {
		t.Error("Markdown cell must not carry outputs")
	}

	code := parsed.Cells[1]
	if code["cell_type"] != "code" {
		t.Errorf("Expected code cell, got %v", code["cell_type"])
	}
	if _, ok := code["outputs"]; !ok {
		t.Error("Code cell must carry outputs")
	}
	if _, ok := code["execution_count"]; !ok {
		t.Error("Code cell must carry execution_count")
	}
}

func TestSourceLines(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "single line",
			source: "data",
			want:   []string{"data"},
		},
		{
			name:   "multiple lines",
			source: "import (\n    \"grapher\"\n)",
			want:   []string{"import (\n", "    \"grapher\"\n", ")"},
		},
		{
			name:   "trailing newline",
			source: "data\n",
			want:   []string{"data\n"},
		},
		{
			name:   "empty",
			source: "",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sourceLines(tt.source)
			if len(got) != len(tt.want) {
				t.Fatalf("sourceLines(%q) = %v, want %v", tt.source, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sourceLines(%q)[%d] = %q, want %q", tt.source, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHTML(t *testing.T) {
	doc := New("life-expectancy", "Life expectancy", "grapher.NewChart(data).\n    Encode(\n        grapher.X(\"year\"),\n    )")

	page, err := doc.HTML()
	if err != nil {
		t.Fatalf("HTML() returned unexpected error: %v", err)
	}

	if !strings.Contains(page, "<h1") || !strings.Contains(page, "Life expectancy") {
		t.Error("Title markdown cell was not rendered as a heading")
	}
	if !strings.Contains(page, "<pre><code") {
		t.Error("Code cells were not rendered as code blocks")
	}
	if !strings.Contains(page, "grapher.X(&quot;year&quot;)") {
		t.Error("Code cell content was not HTML-escaped")
	}
}
