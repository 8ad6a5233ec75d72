package scan

import "context"

type Scanner interface {
	Scan(ctx context.Context, req Request) (*Report, error)
}
