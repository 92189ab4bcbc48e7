package collection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSaveAndLoadPageMetadata(t *testing.T) {
	metadata := PageMetadata{
		URL:         "http://play-agricola.com/Agricola/Cards/index.php",
		Method:      "POST",
		ContentType: "text/html; charset=iso-8859-1",
	}
	filename := filepath.Join(t.TempDir(), "1.html")

	if err := savePageMetadata(filename, metadata); err != nil {
		t.Fatalf("Failed to save metadata: %v", err)
	}
	loaded, err := loadPageMetadata(filename)
	if err != nil {
		t.Fatalf("Failed to load metadata: %v", err)
	}
	if diff := cmp.Diff(metadata, loaded); diff != "" {
		t.Errorf("Metadata mismatch (-expected +got):\n%s", diff)
	}
}

func TestLoadPageMetadata_WithoutMethod(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "1.html")
	err := os.WriteFile(filename+MetadataFileExtension, []byte(`{"url":"http://localhost/","content_type":"text/html"}`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := loadPageMetadata(filename)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(PageMetadata{URL: "http://localhost/", ContentType: "text/html"}, loaded); diff != "" {
		t.Errorf("(-expected +got):\n%s", diff)
	}
}

func TestLoadPageMetadata_Errors(t *testing.T) {
	if _, err := loadPageMetadata("/non/existent/file.html"); err == nil {
		t.Error("Expected error when loading non-existent file")
	}

	filename := filepath.Join(t.TempDir(), "invalid.html")
	if err := os.WriteFile(filename+MetadataFileExtension, []byte("invalid json"), 0644); err != nil {
		t.Fatalf("Failed to write invalid JSON file: %v", err)
	}
	if _, err := loadPageMetadata(filename); err == nil {
		t.Error("Expected error when loading invalid JSON")
	}
}
