/*

	Mnemonic:	idgen
	Abstract:	Requester IDs that cross a mailbox boundary must be globally
				unique for the lifetime of the run since replies are routed
				by requester ID (spec section 2); google/uuid gives us that
				without a shared counter and its own lock.

	Date:		29 July 2026
*/

package idgen

import "github.com/google/uuid"

// NewRequesterID returns a fresh identifier for a SECURITY or RAMP
// request's reply tag.
func NewRequesterID() string {
	return uuid.NewString()
}
