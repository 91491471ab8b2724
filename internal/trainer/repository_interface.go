package trainer

import "context"

type Repository interface {
	FindByCode(ctx context.Context, code string) (*Trainer, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	LastCode(ctx context.Context) (string, error)
	Create(ctx context.Context, t *Trainer) error
	Delete(ctx context.Context, code string) (bool, error)
}
