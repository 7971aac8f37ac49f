package markdown

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestDiscoverInStartDir(t *testing.T) {
	fsys := fstest.MapFS{
		"home/project/runbook.md": {Data: []byte("# hi")},
	}

	found, err := NewLocator(fsys, "runbook").Discover("home/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "home/project/runbook.md" {
		t.Fatalf("unexpected path %q", found)
	}
}

func TestDiscoverWalksUpward(t *testing.T) {
	fsys := fstest.MapFS{
		"home/project/README.md":     {Data: []byte("# root doc")},
		"home/project/src/deep/x.go": {Data: []byte("package deep")},
	}

	found, err := NewLocator(fsys, "runbook").Discover("home/project/src/deep")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "home/project/README.md" {
		t.Fatalf("unexpected path %q", found)
	}
}

func TestDiscoverCandidateOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"project/runbook.md":  {Data: []byte("# named")},
		"project/.runbook.md": {Data: []byte("# hidden")},
		"project/README.md":   {Data: []byte("# readme")},
	}

	found, err := NewLocator(fsys, "runbook").Discover("project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "project/runbook.md" {
		t.Fatalf("expected <program>.md to win, got %q", found)
	}
}

func TestDiscoverHiddenBeatsReadme(t *testing.T) {
	fsys := fstest.MapFS{
		"project/.runbook.md": {Data: []byte("# hidden")},
		"project/README.md":   {Data: []byte("# readme")},
	}

	found, err := NewLocator(fsys, "runbook").Discover("project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "project/.runbook.md" {
		t.Fatalf("expected .<program>.md to win, got %q", found)
	}
}

func TestDiscoverCaseInsensitive(t *testing.T) {
	fsys := fstest.MapFS{
		"project/Readme.MD": {Data: []byte("# readme")},
	}

	found, err := NewLocator(fsys, "runbook").Discover("project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "project/Readme.MD" {
		t.Fatalf("unexpected path %q", found)
	}
}

func TestDiscoverNotFound(t *testing.T) {
	fsys := fstest.MapFS{
		"project/notes.txt": {Data: []byte("nothing here")},
	}

	_, err := NewLocator(fsys, "runbook").Discover("project")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestNewLocatorStripsPathAndExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"project/runbook.md": {Data: []byte("# hi")},
	}

	// Program names arrive as argv[0]; directory and extension are ignored.
	found, err := NewLocator(fsys, "/usr/local/bin/runbook.exe").Discover("project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "project/runbook.md" {
		t.Fatalf("unexpected path %q", found)
	}
}
