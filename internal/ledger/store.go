// Package ledger implements the service that owns loan records and
// overdue detection.
package ledger

import (
	"errors"
	"time"

	"librarynet/internal/entity"
)

var (
	ErrAlreadyBorrowed = errors.New("book already borrowed")
	ErrNotFound        = errors.New("book not found in borrowed list")
)

const loanPeriodDays = 7

// Store owns every loan record the service has created. Records are
// never deleted: returning a loan flips its status, so the active
// view stops serving it while the history view keeps it. Only the
// service's request loop touches the store, one operation at a time.
type Store struct {
	records []entity.LoanRecord
	now     func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Active returns the user's records still out on loan.
func (s *Store) Active(userID string) []entity.LoanRecord {
	out := make([]entity.LoanRecord, 0)
	for _, r := range s.records {
		if r.UserID == userID && r.Active() {
			out = append(out, r)
		}
	}
	return out
}

// All returns every record for the user regardless of status.
func (s *Store) All(userID string) []entity.LoanRecord {
	out := make([]entity.LoanRecord, 0)
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// Borrow creates an active record for the pair. The ledger owns the
// dates: borrowed today, due in seven days, whatever the time of day.
func (s *Store) Borrow(userID string, bookID int, title string) (entity.LoanRecord, error) {
	for _, r := range s.records {
		if r.UserID == userID && r.BookID == bookID && r.Active() {
			return entity.LoanRecord{}, ErrAlreadyBorrowed
		}
	}
	borrowed := s.now()
	record := entity.LoanRecord{
		UserID:       userID,
		BookID:       bookID,
		Title:        title,
		BorrowedDate: borrowed.Format(entity.DateLayout),
		DueDate:      borrowed.AddDate(0, 0, loanPeriodDays).Format(entity.DateLayout),
		Status:       entity.LoanStatusBorrowed,
	}
	s.records = append(s.records, record)
	return record, nil
}

// Return closes the pair's active record.
func (s *Store) Return(userID string, bookID int) error {
	for i := range s.records {
		r := &s.records[i]
		if r.UserID == userID && r.BookID == bookID && r.Active() {
			r.Status = entity.LoanStatusReturned
			return nil
		}
	}
	return ErrNotFound
}

// Overdue returns the user's active records whose due date is
// strictly before today. A loan due today is not overdue.
func (s *Store) Overdue(userID string) []entity.LoanRecord {
	today := s.now().Format(entity.DateLayout)
	out := make([]entity.LoanRecord, 0)
	for _, r := range s.records {
		if r.UserID == userID && r.Active() && r.DueDate < today {
			out = append(out, r)
		}
	}
	return out
}
