package ledger

import (
	"context"

	"librarynet/internal/entity"
	"librarynet/internal/rpc"
)

// Client is the ledger as seen by the orchestrator and the history
// service.
type Client struct {
	rpc *rpc.Client
}

func NewClient(rc *rpc.Client) *Client {
	return &Client{rpc: rc}
}

// BorrowedBooks returns the user's active loans.
func (c *Client) BorrowedBooks(ctx context.Context, userID string) ([]entity.LoanRecord, error) {
	return c.listing(ctx, OpGetBorrowedBooks, userID)
}

// History returns every record for the user, active and returned.
func (c *Client) History(ctx context.Context, userID string) ([]entity.LoanRecord, error) {
	return c.listing(ctx, OpGetHistoryBorrowedBooks, userID)
}

func (c *Client) listing(ctx context.Context, op, userID string) ([]entity.LoanRecord, error) {
	var reply BorrowedBooksReply
	if err := c.rpc.Call(ctx, op, userID, &reply); err != nil {
		return nil, err
	}
	if reply.Status != rpc.StatusSuccess {
		return nil, &rpc.RemoteError{Service: "ledger", Operation: op, Message: reply.Message}
	}
	return reply.BorrowedBooks, nil
}

// Borrow records a loan and returns the due date the ledger computed.
func (c *Client) Borrow(ctx context.Context, req BorrowRequest) (string, error) {
	var reply BorrowReply
	if err := c.rpc.Call(ctx, OpBorrowBook, req, &reply); err != nil {
		return "", err
	}
	if reply.Status != rpc.StatusSuccess {
		return "", &rpc.RemoteError{Service: "ledger", Operation: OpBorrowBook, Message: reply.Message}
	}
	return reply.DueDate, nil
}

// Return closes the pair's active loan.
func (c *Client) Return(ctx context.Context, req ReturnRequest) error {
	var reply rpc.StatusReply
	if err := c.rpc.Call(ctx, OpReturnBook, req, &reply); err != nil {
		return err
	}
	if reply.Status != rpc.StatusSuccess {
		return &rpc.RemoteError{Service: "ledger", Operation: OpReturnBook, Message: reply.Message}
	}
	return nil
}

// Overdue returns the overdue reply as-is; the status distinguishes
// "alert" from an empty result.
func (c *Client) Overdue(ctx context.Context, userID string) (OverdueReply, error) {
	var reply OverdueReply
	if err := c.rpc.Call(ctx, OpCheckOverdueBooks, userID, &reply); err != nil {
		return OverdueReply{}, err
	}
	if reply.Status == rpc.StatusError {
		return OverdueReply{}, &rpc.RemoteError{Service: "ledger", Operation: OpCheckOverdueBooks, Message: reply.Message}
	}
	return reply, nil
}
