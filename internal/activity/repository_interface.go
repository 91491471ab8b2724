package activity

import "context"

type Repository interface {
	FindByCode(ctx context.Context, code string) (*Activity, error)
	ListAll(ctx context.Context) ([]Activity, error)
	LastCode(ctx context.Context) (string, error)
	SlotTaken(ctx context.Context, trainerCode string, day Weekday, hour int, excludingCode string) (bool, error)
	Create(ctx context.Context, a *Activity) error
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, code string) (bool, error)
}
