package web

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/FathurrahmanNasution/portfolio/internal/scrollspy"
	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

// RenderStatic writes the page with every section revealed and no live view.
// Navigation falls back to plain anchors.
func (s *Server) RenderStatic(w io.Writer) error {
	st := scrollspy.NewState()
	st.Visibility = scrollspy.Reduce(st.Visibility, allVisible())

	data, err := s.buildPage("", st.Snapshot())
	if err != nil {
		return err
	}
	return s.tmpl.ExecuteTemplate(w, "index.html", data)
}

// ExportSite writes index.html and the static assets into dir.
func (s *Server) ExportSite(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	out, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("creating index.html: %w", err)
	}
	if err := s.RenderStatic(out); err != nil {
		out.Close()
		return fmt.Errorf("rendering index.html: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	return fs.WalkDir(staticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		data, err := staticFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		return nil
	})
}

func allVisible() []scrollspy.Update {
	ids := section.All()
	updates := make([]scrollspy.Update, 0, len(ids))
	for _, id := range ids {
		updates = append(updates, scrollspy.Update{ID: id, Visible: true})
	}
	return updates
}
