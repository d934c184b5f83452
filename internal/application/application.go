package application

import "context"

// UseCase is a single application entry point. Failures are reported inside
// the result value, so Execute itself never fails.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) R
}
