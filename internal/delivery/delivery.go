package delivery

import "context"

// Delivery is a long-running transport started by the application root.
type Delivery interface {
	Serve(ctx context.Context) error
}
