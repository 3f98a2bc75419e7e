package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default content invalid: %v", err)
	}
	if len(p.Projects) != 3 {
		t.Errorf("expected 3 projects, got %d", len(p.Projects))
	}
	if len(p.Skills) != 4 {
		t.Errorf("expected 4 skill categories, got %d", len(p.Skills))
	}
	if len(p.Certifications) != 3 {
		t.Errorf("expected 3 certifications, got %d", len(p.Certifications))
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	p := &Portfolio{
		Projects: []Project{{Title: "", GitHub: "not a url"}},
		Contact:  Contact{Links: []Link{{Label: "GitHub", URL: "ftp://example.com", Kind: "github"}}},
	}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"profile.name", "projects[0]: title", "projects[0].github", "contact.links[0]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")

	original := Default()
	original.Profile.Name = "Jane Doe"
	original.Projects = original.Projects[:1]
	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Profile.Name != "Jane Doe" {
		t.Errorf("name: got %q", loaded.Profile.Name)
	}
	if len(loaded.Projects) != 1 || loaded.Projects[0].Title != "Movie Rating Application" {
		t.Errorf("projects: got %+v", loaded.Projects)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("profile:\n  name: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected validation error for empty name")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Profile.Name != Default().Profile.Name {
		t.Errorf("expected default profile, got %q", p.Profile.Name)
	}
}

func TestBioHTML(t *testing.T) {
	p := Default()
	html, err := p.BioHTML()
	if err != nil {
		t.Fatalf("BioHTML: %v", err)
	}
	if strings.Count(string(html), "<p>") != 3 {
		t.Errorf("expected 3 paragraphs, got %q", html)
	}
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	html, err := RenderMarkdown("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Errorf("raw HTML passed through: %q", html)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	writePortfolio(t, path, "Before")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Portfolio, 1)
	go Watch(ctx, path, zap.NewNop(), func(p *Portfolio) {
		select {
		case changed <- p:
		default:
		}
	})

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)
	writePortfolio(t, path, "After")

	select {
	case p := <-changed:
		if p.Profile.Name != "After" {
			t.Errorf("expected reloaded name After, got %q", p.Profile.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("content was not reloaded")
	}
}

func writePortfolio(t *testing.T, path, name string) {
	t.Helper()
	p := Default()
	p.Profile.Name = name
	data, err := yaml.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
