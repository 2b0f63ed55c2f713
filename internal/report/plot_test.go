package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotCurve(t *testing.T) {
	var buf bytes.Buffer
	err := PlotCurve(&buf, "Test Plot", []float64{20, 10, 5, 2.5, 1.25},
		20, 0.5, []Marker{{Frac: 0.2, Label: "m"}}, 20, 4, false)
	if err != nil {
		t.Fatalf("PlotCurve failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	if !strings.Contains(out, "now") || !strings.Contains(out, "milestones") {
		t.Fatalf("expected now and milestone legend entries:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected title + 4 plot rows + legend, got %d lines", len(lines))
	}
}

func TestPlotCurveEmptyValues(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotCurve(&buf, "Empty", nil, 20, -1, nil, 20, 4, false); err != nil {
		t.Fatalf("PlotCurve failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty values, got %q", buf.String())
	}
}

func TestFracToDotColumn(t *testing.T) {
	if got := fracToDotColumn(0, 20); got != 0 {
		t.Fatalf("expected column 0, got %d", got)
	}
	if got := fracToDotColumn(1, 20); got != 39 {
		t.Fatalf("expected last dot column 39, got %d", got)
	}
	if got := fracToDotColumn(0.5, 20); got < 0 || got > 39 {
		t.Fatalf("midpoint column out of range: %d", got)
	}
}
