package supertag

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const targetFile = "target.txt"

// Inventory is the ordered, closed set of categories a model can predict.
// Line i of the model's target.txt defines index i, and that assignment
// never changes for the lifetime of the inventory. Inventories are
// immutable after construction and safe to share across goroutines.
type Inventory struct {
	cats []*Category
}

// LoadInventory reads target.txt under modelDir, one category per line in
// index order. It returns a *LoadError if the file is missing, empty, or
// contains a duplicate entry.
func LoadInventory(modelDir string) (*Inventory, error) {
	path := filepath.Join(modelDir, targetFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	var cats []*Category
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("duplicate category %q", line)}
		}
		seen[line] = struct{}{}
		cats = append(cats, InternCategory(line))
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(cats) == 0 {
		return nil, &LoadError{Path: path, Err: errors.New("no categories")}
	}
	return &Inventory{cats: cats}, nil
}

// Size returns the number of categories. Callers use it to size score
// buffers and validate backend output.
func (inv *Inventory) Size() int { return len(inv.cats) }

// At returns the category assigned to index i, or ErrOutOfRange when i is
// outside [0, Size()).
func (inv *Inventory) At(i int) (*Category, error) {
	if i < 0 || i >= len(inv.cats) {
		return nil, fmt.Errorf("index %d of %d: %w", i, len(inv.cats), ErrOutOfRange)
	}
	return inv.cats[i], nil
}
