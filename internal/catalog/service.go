package catalog

import (
	"context"
	"errors"

	"librarynet/internal/entity"
	"librarynet/internal/rpc"
)

// Operation names served by the catalog.
const (
	OpGetBooks    = "get_books"
	OpSearchBooks = "search_books"
	OpBorrowBook  = "borrow_book"
	OpReserveBook = "reserve_book"
	OpReturnBook  = "return_book"
)

// BooksReply answers get_books and search_books. It deliberately has
// no status field; listings cannot fail.
type BooksReply struct {
	Books []entity.Book `json:"books"`
}

// Service dispatches catalog operations onto the store.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Handle(ctx context.Context, req rpc.Request) any {
	switch req.Op {
	case OpGetBooks:
		return BooksReply{Books: s.store.List()}
	case OpSearchBooks:
		var query string
		if err := req.DecodeData(&query); err != nil {
			return rpc.Error("search query must be a string")
		}
		return BooksReply{Books: s.store.Search(query)}
	case OpBorrowBook:
		return s.mutate(req, s.store.Borrow, "Book marked as borrowed")
	case OpReserveBook:
		return s.mutate(req, s.store.Reserve, "Book reserved successfully")
	case OpReturnBook:
		return s.mutate(req, s.store.Return, "Book returned successfully")
	}
	return rpc.Error("Invalid operation")
}

func (s *Service) mutate(req rpc.Request, op func(int) error, okMessage string) any {
	var id int
	if err := req.DecodeData(&id); err != nil {
		return rpc.Error("book id must be a number")
	}
	if err := op(id); err != nil {
		return rpc.Error(errorMessage(err))
	}
	return rpc.OK(okMessage)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotAvailable):
		return "Book not available"
	case errors.Is(err, ErrAlreadyReserved):
		return "Book is already reserved"
	case errors.Is(err, ErrNoReserveNeeded):
		return "Book is available, no need to reserve"
	case errors.Is(err, ErrNotFound):
		return "Book not found"
	}
	return err.Error()
}
