package ledger

import (
	"context"

	"librarynet/internal/entity"
	"librarynet/internal/rpc"
)

// Operation names served by the ledger.
const (
	OpGetBorrowedBooks = "get_borrowed_books"
	// OpGetHistoryBorrowedBooks returns records of every status under
	// the borrowed_books field; the name is historical and pinned by
	// the wire contract.
	OpGetHistoryBorrowedBooks = "get_history_borrowed_books"
	OpBorrowBook              = "borrow_book"
	OpReturnBook              = "return_book"
	OpCheckOverdueBooks       = "check_overdue_books"
)

// BorrowedBooksReply answers both listing operations.
type BorrowedBooksReply struct {
	Status        string              `json:"status"`
	Message       string              `json:"message,omitempty"`
	BorrowedBooks []entity.LoanRecord `json:"borrowed_books"`
}

// BorrowReply carries the due date the ledger computed.
type BorrowReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	DueDate string `json:"due_date,omitempty"`
}

// OverdueReply answers check_overdue_books: status "alert" with the
// overdue subset, or "success" when there is none.
type OverdueReply struct {
	Status       string              `json:"status"`
	Message      string              `json:"message"`
	OverdueBooks []entity.LoanRecord `json:"overdue_books,omitempty"`
}

// BorrowRequest is the draft the orchestrator submits; the ledger
// owns the dates and the status.
type BorrowRequest struct {
	UserID string `json:"user_id"`
	BookID int    `json:"book_id"`
	Title  string `json:"title"`
}

// ReturnRequest identifies the active loan to close.
type ReturnRequest struct {
	UserID string `json:"user_id"`
	BookID int    `json:"book_id"`
}

// Service dispatches ledger operations onto the store.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Handle(ctx context.Context, req rpc.Request) any {
	switch req.Op {
	case OpGetBorrowedBooks:
		return s.listing(req, s.store.Active)
	case OpGetHistoryBorrowedBooks:
		return s.listing(req, s.store.All)
	case OpBorrowBook:
		var borrow BorrowRequest
		if err := req.DecodeData(&borrow); err != nil {
			return rpc.Error("malformed borrow request")
		}
		record, err := s.store.Borrow(borrow.UserID, borrow.BookID, borrow.Title)
		if err != nil {
			return rpc.Error("Book already borrowed")
		}
		return BorrowReply{
			Status:  rpc.StatusSuccess,
			Message: "Book borrowed successfully",
			DueDate: record.DueDate,
		}
	case OpReturnBook:
		var ret ReturnRequest
		if err := req.DecodeData(&ret); err != nil {
			return rpc.Error("malformed return request")
		}
		if err := s.store.Return(ret.UserID, ret.BookID); err != nil {
			return rpc.Error("Book not found in borrowed list")
		}
		return rpc.OK("Book returned successfully")
	case OpCheckOverdueBooks:
		var userID string
		if err := req.DecodeData(&userID); err != nil {
			return rpc.Error("user id must be a string")
		}
		overdue := s.store.Overdue(userID)
		if len(overdue) > 0 {
			return OverdueReply{
				Status:       rpc.StatusAlert,
				Message:      "You have overdue books!",
				OverdueBooks: overdue,
			}
		}
		return OverdueReply{Status: rpc.StatusSuccess, Message: "No overdue books."}
	}
	return rpc.Error("Invalid operation")
}

func (s *Service) listing(req rpc.Request, view func(string) []entity.LoanRecord) any {
	var userID string
	if err := req.DecodeData(&userID); err != nil {
		return rpc.Error("user id must be a string")
	}
	return BorrowedBooksReply{
		Status:        rpc.StatusSuccess,
		BorrowedBooks: view(userID),
	}
}
