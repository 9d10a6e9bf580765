// Package history implements the stateless service that republishes
// the ledger's records as borrowing history.
package history

import (
	"context"

	"librarynet/internal/ledger"
	"librarynet/internal/rpc"
)

// OpGetBorrowingHistory is the only operation the service answers.
const OpGetBorrowingHistory = "get_borrowing_history"

// Service relays history queries to the ledger. It holds no state of
// its own; the reply is the ledger's record set verbatim.
type Service struct {
	ledger *ledger.Client
}

func NewService(ledgerClient *ledger.Client) *Service {
	return &Service{ledger: ledgerClient}
}

func (s *Service) Handle(ctx context.Context, req rpc.Request) any {
	if req.Op != OpGetBorrowingHistory {
		return rpc.Error("Invalid operation")
	}
	var userID string
	if err := req.DecodeData(&userID); err != nil {
		return rpc.Error("user id must be a string")
	}
	records, err := s.ledger.History(ctx, userID)
	if err != nil {
		return rpc.Error("Failed to fetch borrowing history from ledger service")
	}
	return ledger.BorrowedBooksReply{
		Status:        rpc.StatusSuccess,
		BorrowedBooks: records,
	}
}
