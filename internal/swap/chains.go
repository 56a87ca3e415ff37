package swap

import (
	"fmt"
	"sort"
	"strings"
)

// chainIDs maps supported chain names to their network IDs. Names are
// matched case-insensitively against this table.
var chainIDs = map[string]uint64{
	"ETHEREUM":  1,
	"OPTIMISM":  10,
	"BSC":       56,
	"GNOSIS":    100,
	"POLYGON":   137,
	"BASE":      8453,
	"ARBITRUM":  42161,
	"AVALANCHE": 43114,
	"LINEA":     59144,
}

// ChainID resolves a chain name to its network ID. The lookup is
// case-insensitive.
func ChainID(name string) (uint64, bool) {
	id, ok := chainIDs[strings.ToUpper(strings.TrimSpace(name))]
	return id, ok
}

// Chains returns all known chain name to network ID pairs.
func Chains() map[string]uint64 {
	out := make(map[string]uint64, len(chainIDs))
	for name, id := range chainIDs {
		out[name] = id
	}
	return out
}

// ChainNames returns the supported chain names in sorted order.
func ChainNames() []string {
	names := make([]string, 0, len(chainIDs))
	for name := range chainIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InvalidChainError reports a chain name absent from the table. Side
// identifies which parameter was invalid.
type InvalidChainError struct {
	// Side is "source" or "destination".
	Side string

	// Name is the rejected chain name.
	Name string
}

// Error implements the error interface.
func (e *InvalidChainError) Error() string {
	return fmt.Sprintf("invalid %s chain %q: supported chains are %s",
		e.Side, e.Name, strings.Join(ChainNames(), ", "))
}
