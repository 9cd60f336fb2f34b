package chain

import (
	"fmt"

	"github.com/dmagro/subspace-cli/internal/scale"
)

// EventRecords is the System.Events value of a block. Records cannot be
// split without runtime metadata, so only the count is decoded and the
// encoded list is kept as returned by the node.
type EventRecords struct {
	Count uint64
	Raw   []byte
}

func DecodeEventRecords(b []byte) (*EventRecords, error) {
	if len(b) == 0 {
		return &EventRecords{}, nil
	}
	count, err := scale.NewDecoder(b).Compact()
	if err != nil {
		return nil, fmt.Errorf("decode event count: %w", err)
	}
	return &EventRecords{Count: count, Raw: b}, nil
}
