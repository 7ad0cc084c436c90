// Package worklet rotates three executor threads through the roles
// primary, hot backup, and cold backup. The primary executes, the hot
// backup stands ready to take over instantly, and the cold backup does
// stall-prone maintenance off the critical path. Roles move between
// threads as tokens through pairwise blocking exchanges, so at every
// instant exactly one thread holds each role.
package worklet

import "context"

// Role names one of the three rotation positions.
type Role uint8

const (
	RolePrimary Role = iota
	RoleHotBackup
	RoleColdBackup
)

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleHotBackup:
		return "hot-backup"
	case RoleColdBackup:
		return "cold-backup"
	}
	return "unknown"
}

// Token is the move-only capability for one role. Tokens are only
// created once per rotation by NewTokens and only change hands through
// Exchange.Swap, which preserves the one-holder-per-role invariant.
type Token struct {
	role Role
}

// Role reports which role this token grants.
func (t Token) Role() Role {
	return t.role
}

// NewTokens mints the three role tokens for one rotation.
func NewTokens() (primary, hot, cold Token) {
	return Token{RolePrimary}, Token{RoleHotBackup}, Token{RoleColdBackup}
}

type swapOffer struct {
	token Token
	reply chan Token
}

// Exchange is a pairwise blocking rendezvous. Two callers each hand in
// a token and receive the counterpart's; neither proceeds until both
// have arrived.
type Exchange struct {
	offers chan swapOffer
}

// NewExchange creates an empty exchange.
func NewExchange() *Exchange {
	return &Exchange{offers: make(chan swapOffer)}
}

// Swap trades tokens with whichever peer arrives at this exchange. It
// blocks until a partner shows up or ctx is done. Cancellation only
// aborts a swap that has no partner yet; once a partner has taken the
// offer the swap always completes, so a role token can never end up
// held by both sides.
func (e *Exchange) Swap(ctx context.Context, t Token) (Token, error) {
	// The reply channel is buffered so the partner's deposit never
	// blocks on this goroutine.
	offer := swapOffer{token: t, reply: make(chan Token, 1)}
	select {
	case e.offers <- offer:
		// The offers channel is unbuffered, so the send completing
		// means a partner holds our token and will deposit its own
		// unconditionally. Waiting here cannot hang and must not race
		// ctx, or the partner's token would be duplicated.
		return <-offer.reply, nil
	case other := <-e.offers:
		// A partner was already waiting.
		other.reply <- t
		return other.token, nil
	case <-ctx.Done():
		return t, ctx.Err()
	}
}
