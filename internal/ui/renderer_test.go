package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestRenderer(opts ...Option) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	opts = append([]Option{WithOutput(&out), WithError(&errOut), WithNoColor(true)}, opts...)
	return NewRendererWithOptions(opts...), &out, &errOut
}

func TestStatusQuiet(t *testing.T) {
	r, _, errOut := newTestRenderer(WithQuiet(true))
	r.Status("querying %s", "us")
	r.Warning("slow")
	if errOut.Len() != 0 {
		t.Errorf("quiet renderer wrote %q", errOut.String())
	}

	r, _, errOut = newTestRenderer()
	r.Status("querying %s", "us")
	if got := errOut.String(); got != "querying us\n" {
		t.Errorf("Status wrote %q", got)
	}
}

func TestErrorKeepsLayout(t *testing.T) {
	r, _, errOut := newTestRenderer()
	r.Error("%s", "first line\n\n  hint")

	want := "Error: first line\n\n  hint\n"
	if got := errOut.String(); got != want {
		t.Errorf("Error wrote %q, want %q", got, want)
	}
}

func TestInfoSuccessSection(t *testing.T) {
	r, out, errOut := newTestRenderer(WithQuiet(true))
	r.Info("created %d files", 3)
	r.Success("  Created %s", "a.json")
	r.Section("Metadata")

	want := "created 3 files\n  Created a.json\n\nMetadata\n"
	if got := out.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr = %q, want nothing", errOut.String())
	}
}

func TestLogMessage(t *testing.T) {
	r, out, _ := newTestRenderer()
	r.LogMessage(LogMessage{
		Index:    2,
		ID:       "a-1",
		Level:    "warn",
		Origin:   "svc @ pod",
		Location: "x.go:1",
		Lines:    []string{"one\ntwo", "three"},
	})

	want := "[2] WARN  svc @ pod | x.go:1  #a-1\n  one\n  two\n  three\n"
	if got := out.String(); got != want {
		t.Errorf("LogMessage wrote %q, want %q", got, want)
	}
}

func TestRegionFailure(t *testing.T) {
	r, out, _ := newTestRenderer()
	r.RegionFailure("i18n", errors.New("denied\nhint"))

	want := "i18n: failed\n  denied\n  hint\n"
	if got := out.String(); got != want {
		t.Errorf("RegionFailure wrote %q, want %q", got, want)
	}
}

func TestTable(t *testing.T) {
	r, out, _ := newTestRenderer()
	r.Table([]string{"KEY", "NAME"}, [][]string{{"us", "United States"}, {"i18n", "International"}})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %q", len(lines), out.String())
	}
	if lines[0] != "KEY   NAME" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "----  -------------" {
		t.Errorf("separator = %q", lines[1])
	}
	if lines[2] != "us    United States" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestLevelStyle(t *testing.T) {
	if LevelStyle("error").GetBold() != true {
		t.Error("error level should be bold")
	}
	if LevelStyle("Info").GetForeground() != ColorGreen {
		t.Error("info level should be green")
	}
	if LevelStyle("trace").GetForeground() != ColorGray {
		t.Error("unknown levels should be gray")
	}
}
