package domain

import "context"

// TxRunner scopes a group of repository calls to one transaction.
// fn receives a context that carries the transaction; returning an error rolls back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
