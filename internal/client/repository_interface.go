package client

import "context"

type Repository interface {
	FindByNumber(ctx context.Context, number string) (*Client, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	LastNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) (bool, error)
	Delete(ctx context.Context, number string) (bool, error)
}
