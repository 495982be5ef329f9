package source

import "context"

type Repository interface {
	GetByName(ctx context.Context, name string) (Source, error)
	Create(ctx context.Context, s Source) (Source, error)
}
