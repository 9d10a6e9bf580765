// Package catalog implements the service that owns book availability
// and reservation state.
package catalog

import (
	"errors"
	"strings"

	"librarynet/internal/entity"
)

var (
	ErrNotFound        = errors.New("book not found")
	ErrNotAvailable    = errors.New("book not available")
	ErrAlreadyReserved = errors.New("book is already reserved")
	ErrNoReserveNeeded = errors.New("book is available, no need to reserve")
)

// Store owns the catalog's book list. It is only ever touched by the
// service's request loop, one operation at a time, so it carries no
// locking.
type Store struct {
	books []entity.Book
}

// NewStore copies the seed so callers cannot alias the live list.
func NewStore(seed []entity.Book) *Store {
	books := make([]entity.Book, len(seed))
	copy(books, seed)
	return &Store{books: books}
}

// List returns a copy of every book.
func (s *Store) List() []entity.Book {
	out := make([]entity.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Search returns books whose title or author contains query as a
// case-insensitive substring. The empty query matches everything.
func (s *Store) Search(query string) []entity.Book {
	q := strings.ToLower(query)
	out := make([]entity.Book, 0)
	for _, b := range s.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) find(id int) *entity.Book {
	for i := range s.books {
		if s.books[i].ID == id {
			return &s.books[i]
		}
	}
	return nil
}

// Borrow marks the book unavailable. A missing book reports the same
// ErrNotAvailable as an unavailable one.
func (s *Store) Borrow(id int) error {
	b := s.find(id)
	if b == nil || !b.Available {
		return ErrNotAvailable
	}
	b.Available = false
	return nil
}

// Reserve is only legal for a book that is checked out and not yet
// reserved.
func (s *Store) Reserve(id int) error {
	b := s.find(id)
	if b == nil {
		return ErrNotFound
	}
	switch {
	case b.Reserved:
		return ErrAlreadyReserved
	case b.Available:
		return ErrNoReserveNeeded
	}
	b.Reserved = true
	return nil
}

// Return marks the book available again. The reserved flag is left
// untouched: a reservation survives the return.
func (s *Store) Return(id int) error {
	b := s.find(id)
	if b == nil {
		return ErrNotFound
	}
	b.Available = true
	return nil
}
