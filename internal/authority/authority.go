// Package authority defines the interface to the external transaction
// authority — the ledger service holding canonical combat and inventory
// state. The simulation engine only predicts; every stateful action is
// submitted here and the response overrides the prediction.
package authority

//go:generate mockgen -destination=mock/mock_authority.go -package=authoritymock github.com/joshvajeskins/Ashfall-sub000/internal/authority TransactionAuthority

import (
	"context"
)

// TransactionAuthority submits one stateful action per call. Transport,
// request signing, and wallet sessions live behind implementations of
// this interface; the simulation never sees them.
//
// A failed action is not a Go error: expected gameplay failures come back
// as a Result with Success=false and a Code from the closed taxonomy.
// The error return is reserved for programming mistakes (nil request,
// canceled context).
type TransactionAuthority interface {
	Request(ctx context.Context, req *Request) (*Result, error)
}
