package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"librarynet/internal/entity"
)

// DefaultSeed is the book list a catalog starts with unless a seed
// file overrides it. Book 10 starts checked out and reserved so the
// reservation paths are reachable from a fresh deployment.
func DefaultSeed() []entity.Book {
	return []entity.Book{
		{ID: 1, Title: "The Hunger Games", Author: "Suzanne Collins", Available: true},
		{ID: 2, Title: "Dune", Author: "Frank Herbert", Available: true},
		{ID: 3, Title: "Pride and Prejudice", Author: "Jane Austen", Available: true},
		{ID: 4, Title: "Half Girlfriend", Author: "Chetan Bhagat", Available: true},
		{ID: 5, Title: "Macbeth", Author: "William Shakespeare", Available: true},
		{ID: 6, Title: "The Merchant of Venice", Author: "William Shakespeare", Available: true},
		{ID: 7, Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Available: true},
		{ID: 8, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Available: true},
		{ID: 9, Title: "Treasure Island", Author: "R.L. Stevenson", Available: true},
		{ID: 10, Title: "1984", Author: "George Orwell", Available: false, Reserved: true},
	}
}

type seedFile struct {
	Books []seedBook `toml:"books"`
}

type seedBook struct {
	ID        int    `toml:"id"`
	Title     string `toml:"title"`
	Author    string `toml:"author"`
	Available bool   `toml:"available"`
	Reserved  bool   `toml:"reserved"`
}

// LoadSeed reads a TOML file of [[books]] tables and validates ids
// and the reserved-implies-unavailable invariant.
func LoadSeed(path string) ([]entity.Book, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Books) == 0 {
		return nil, errors.New("seed file has no books")
	}

	books := make([]entity.Book, 0, len(f.Books))
	seen := make(map[int]bool, len(f.Books))
	for _, b := range f.Books {
		if b.ID <= 0 {
			return nil, fmt.Errorf("book %q: id must be positive", b.Title)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("duplicate book id %d", b.ID)
		}
		if b.Reserved && b.Available {
			return nil, fmt.Errorf("book %d: cannot be reserved while available", b.ID)
		}
		seen[b.ID] = true
		books = append(books, entity.Book{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			Available: b.Available,
			Reserved:  b.Reserved,
		})
	}
	return books, nil
}
