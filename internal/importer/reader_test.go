package importer

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenSource(t *testing.T) {
	path := writeTempCSV(t, "name,city,phone\nAce Cooling,Phoenix,6025550100\nDesert Pools,Mesa,4805550199\n")

	src, err := OpenSource(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	want := []string{"name", "city", "phone"}
	for i, h := range src.Headers() {
		if h != want[i] {
			t.Errorf("Headers[%d] = %q, want %q", i, h, want[i])
		}
	}

	row, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if row["name"] != "Ace Cooling" || row["city"] != "Phoenix" {
		t.Errorf("row = %v", row)
	}

	if _, err := src.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestOpenSourceNotFound(t *testing.T) {
	_, err := OpenSource(filepath.Join(t.TempDir(), "missing.csv"), 0)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestOpenSourceEmpty(t *testing.T) {
	path := writeTempCSV(t, "")
	_, err := OpenSource(path, 0)
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("err = %v, want ErrEmptyFile", err)
	}
}

func TestOpenSourceBOM(t *testing.T) {
	path := writeTempCSV(t, "\xEF\xBB\xBFname,city\nAce,Phoenix\n")
	src, err := OpenSource(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if src.Headers()[0] != "name" {
		t.Errorf("Headers[0] = %q, want name (BOM not stripped)", src.Headers()[0])
	}
}

func TestOpenSourceSemicolonDelimiter(t *testing.T) {
	path := writeTempCSV(t, "name;city\nAce Cooling;Phoenix\n")
	src, err := OpenSource(path, ';')
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	row, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if row["city"] != "Phoenix" {
		t.Errorf("row = %v", row)
	}
}

func TestNextRaggedRows(t *testing.T) {
	path := writeTempCSV(t, "name,city,phone\nAce Cooling,Phoenix\nDesert Pools,Mesa,4805550199,extra\n")
	src, err := OpenSource(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	short, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := short["phone"]; ok {
		t.Errorf("short row should not bind phone: %v", short)
	}

	long, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if long["phone"] != "4805550199" {
		t.Errorf("long row = %v", long)
	}
	if len(long) != 3 {
		t.Errorf("extra cell retained: %v", long)
	}
}

func TestNewSourceFromReader(t *testing.T) {
	src, err := NewSource(strings.NewReader("name,city\nAce,Phoenix\n"), "inbox/ace.csv", 0)
	if err != nil {
		t.Fatal(err)
	}
	if src.Name() != "inbox/ace.csv" {
		t.Errorf("Name = %q", src.Name())
	}
	row, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if row["name"] != "Ace" {
		t.Errorf("row = %v", row)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close on reader-backed source = %v", err)
	}
}

func TestQuotedFields(t *testing.T) {
	path := writeTempCSV(t, "name,description\n\"Ace, Cooling\",\"It said \"\"best in town\"\"\"\n")
	src, err := OpenSource(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	row, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if row["name"] != "Ace, Cooling" {
		t.Errorf("quoted comma field = %q", row["name"])
	}
	if !strings.Contains(row["description"], `"best in town"`) {
		t.Errorf("escaped quotes = %q", row["description"])
	}
}
