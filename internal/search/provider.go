// Package search retrieves candidate evidence documents for a claim. It is
// the external collaborator boundary: everything here is glue and I/O; the
// adjudication engine only sees the descriptors it produces.
package search

import (
	"context"

	"github.com/rmedved/concord/internal/model"
)

// Provider is a source of candidate evidence descriptors for a claim.
type Provider interface {
	// Name returns the provider name for logs and budget attribution.
	Name() string

	// Search returns up to limit candidate descriptors for the claim.
	// Direction labeling happens downstream; providers return it empty.
	Search(ctx context.Context, claim model.Claim, limit int) ([]model.EvidenceDescriptor, error)

	// CostPerCallUSD is the nominal spend recorded against the budget for
	// each Search call. Free APIs return 0; the call is still counted.
	CostPerCallUSD() float64
}
