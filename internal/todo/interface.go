package todo

import "context"

// UseCase defines the business logic interface for the todo domain.
type UseCase interface {
	// Sync scans the docs tree and reconciles every checkbox with the tracker, then saves state.
	Sync(ctx context.Context, input SyncInput) (SyncOutput, error)

	// Plan computes the decisions Sync would make without writing to the tracker or state.
	Plan(ctx context.Context, input SyncInput) (PlanOutput, error)
}
