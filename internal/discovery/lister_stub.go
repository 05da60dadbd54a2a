//go:build !windows

package discovery

import (
	"context"
	"errors"
)

var errNoInventory = errors.New("discovery: OS device inventory not available on this platform")

type stubLister struct{}

// NewOSLister returns a lister that always fails. The PnP inventory only
// exists on Windows; the resolver degrades to an empty result.
func NewOSLister(vendor string) DeviceLister {
	return stubLister{}
}

func (stubLister) List(ctx context.Context) ([]RawDevice, error) {
	return nil, errNoInventory
}
