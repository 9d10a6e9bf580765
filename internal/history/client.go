package history

import (
	"context"

	"librarynet/internal/entity"
	"librarynet/internal/ledger"
	"librarynet/internal/rpc"
)

// Client queries the history service.
type Client struct {
	rpc *rpc.Client
}

func NewClient(rc *rpc.Client) *Client {
	return &Client{rpc: rc}
}

// History returns the user's full borrowing history.
func (c *Client) History(ctx context.Context, userID string) ([]entity.LoanRecord, error) {
	var reply ledger.BorrowedBooksReply
	if err := c.rpc.Call(ctx, OpGetBorrowingHistory, userID, &reply); err != nil {
		return nil, err
	}
	if reply.Status != rpc.StatusSuccess {
		return nil, &rpc.RemoteError{Service: "history", Operation: OpGetBorrowingHistory, Message: reply.Message}
	}
	return reply.BorrowedBooks, nil
}
