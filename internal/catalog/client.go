package catalog

import (
	"context"

	"librarynet/internal/entity"
	"librarynet/internal/rpc"
)

// Client is the catalog as seen by the orchestrator: blocking typed
// calls over the request/reply channel.
type Client struct {
	rpc *rpc.Client
}

func NewClient(rc *rpc.Client) *Client {
	return &Client{rpc: rc}
}

func (c *Client) GetBooks(ctx context.Context) ([]entity.Book, error) {
	var reply BooksReply
	if err := c.rpc.Call(ctx, OpGetBooks, nil, &reply); err != nil {
		return nil, err
	}
	return reply.Books, nil
}

func (c *Client) SearchBooks(ctx context.Context, query string) ([]entity.Book, error) {
	var reply BooksReply
	if err := c.rpc.Call(ctx, OpSearchBooks, query, &reply); err != nil {
		return nil, err
	}
	return reply.Books, nil
}

func (c *Client) BorrowBook(ctx context.Context, id int) error {
	return c.mutate(ctx, OpBorrowBook, id)
}

func (c *Client) ReserveBook(ctx context.Context, id int) error {
	return c.mutate(ctx, OpReserveBook, id)
}

func (c *Client) ReturnBook(ctx context.Context, id int) error {
	return c.mutate(ctx, OpReturnBook, id)
}

func (c *Client) mutate(ctx context.Context, op string, id int) error {
	var reply rpc.StatusReply
	if err := c.rpc.Call(ctx, op, id, &reply); err != nil {
		return err
	}
	if reply.Status != rpc.StatusSuccess {
		return &rpc.RemoteError{Service: "catalog", Operation: op, Message: reply.Message}
	}
	return nil
}
