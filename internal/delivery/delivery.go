// Package delivery defines the contract every transport adapter fulfills.
package delivery

import "context"

// Delivery is a server that accepts requests until its context ends or the
// fx lifecycle stops it.
type Delivery interface {
	Serve(ctx context.Context) error
}
