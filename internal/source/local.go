// Package source discovers import files: CSVs under a local directory
// and, when configured, CSV objects in an S3 bucket.
package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiscoverLocal returns every .csv file under dir, in walk (lexical)
// order. A missing directory yields an empty list, not an error, so
// `import --all` with only an S3 source configured still works.
func DiscoverLocal(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
