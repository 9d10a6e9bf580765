package workflow

import (
	"context"
	"errors"

	"librarynet/internal/catalog"
	"librarynet/internal/entity"
	"librarynet/internal/history"
	"librarynet/internal/ledger"
)

var ErrNoSession = errors.New("no user signed in")

// Orchestrator drives the user-level workflows across the catalog,
// ledger and history services. It issues one blocking request at a
// time, in a fixed order per workflow.
type Orchestrator struct {
	catalog *catalog.Client
	ledger  *ledger.Client
	history *history.Client

	userID string
}

func New(catalogClient *catalog.Client, ledgerClient *ledger.Client, historyClient *history.Client) *Orchestrator {
	return &Orchestrator{
		catalog: catalogClient,
		ledger:  ledgerClient,
		history: historyClient,
	}
}

// SetUser caches the session's user id; it is attached to every
// ledger and history call.
func (o *Orchestrator) SetUser(userID string) {
	o.userID = userID
}

func (o *Orchestrator) User() string {
	return o.userID
}

// Books lists or searches the catalog. An empty query lists all.
func (o *Orchestrator) Books(ctx context.Context, query string) ([]entity.Book, error) {
	if query == "" {
		return o.catalog.GetBooks(ctx)
	}
	return o.catalog.SearchBooks(ctx, query)
}

// Borrow checks the book out of the catalog, then records the loan in
// the ledger. If the ledger rejects the loan the catalog step is
// compensated so the two services keep agreeing about the book.
func (o *Orchestrator) Borrow(ctx context.Context, book entity.Book) (string, error) {
	if o.userID == "" {
		return "", ErrNoSession
	}
	var dueDate string
	saga := NewSaga("borrow",
		Step{
			Name: "catalog borrow",
			Run: func(ctx context.Context) error {
				return o.catalog.BorrowBook(ctx, book.ID)
			},
			Compensate: func(ctx context.Context) error {
				return o.catalog.ReturnBook(ctx, book.ID)
			},
		},
		Step{
			Name: "ledger record loan",
			Run: func(ctx context.Context) error {
				due, err := o.ledger.Borrow(ctx, ledger.BorrowRequest{
					UserID: o.userID,
					BookID: book.ID,
					Title:  book.Title,
				})
				if err != nil {
					return err
				}
				dueDate = due
				return nil
			},
		},
	)
	if err := saga.Execute(ctx); err != nil {
		return "", err
	}
	return dueDate, nil
}

// Return hands the book back to the catalog, then closes the loan in
// the ledger. The catalog's return is unconditional, so the workflow
// first reads whether the book was actually out; the compensation
// only re-marks it borrowed if it had been.
func (o *Orchestrator) Return(ctx context.Context, bookID int) error {
	if o.userID == "" {
		return ErrNoSession
	}

	wasAvailable := false
	books, err := o.catalog.GetBooks(ctx)
	if err != nil {
		return err
	}
	for _, b := range books {
		if b.ID == bookID {
			wasAvailable = b.Available
		}
	}

	return NewSaga("return",
		Step{
			Name: "catalog return",
			Run: func(ctx context.Context) error {
				return o.catalog.ReturnBook(ctx, bookID)
			},
			Compensate: func(ctx context.Context) error {
				if wasAvailable {
					return nil
				}
				return o.catalog.BorrowBook(ctx, bookID)
			},
		},
		Step{
			Name: "ledger close loan",
			Run: func(ctx context.Context) error {
				return o.ledger.Return(ctx, ledger.ReturnRequest{
					UserID: o.userID,
					BookID: bookID,
				})
			},
		},
	).Execute(ctx)
}

// Reserve is a single catalog call; no saga needed.
func (o *Orchestrator) Reserve(ctx context.Context, bookID int) error {
	return o.catalog.ReserveBook(ctx, bookID)
}

// BorrowedBooks returns the session user's active loans.
func (o *Orchestrator) BorrowedBooks(ctx context.Context) ([]entity.LoanRecord, error) {
	if o.userID == "" {
		return nil, ErrNoSession
	}
	return o.ledger.BorrowedBooks(ctx, o.userID)
}

// BorrowingHistory returns the session user's full history via the
// history service.
func (o *Orchestrator) BorrowingHistory(ctx context.Context) ([]entity.LoanRecord, error) {
	if o.userID == "" {
		return nil, ErrNoSession
	}
	return o.history.History(ctx, o.userID)
}

// OverdueBooks asks the ledger for the session user's overdue loans.
func (o *Orchestrator) OverdueBooks(ctx context.Context) (ledger.OverdueReply, error) {
	if o.userID == "" {
		return ledger.OverdueReply{}, ErrNoSession
	}
	return o.ledger.Overdue(ctx, o.userID)
}
