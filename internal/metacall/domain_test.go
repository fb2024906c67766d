package metacall_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/metacall"
)

// TestDomainSeparatorMatchesFixture implements the spec's EIP-712 key
// derivation scenario: name="NEAR", version="1", chain_id=1313161555
// must produce this exact 32-byte domain separator.
func TestDomainSeparatorMatchesFixture(t *testing.T) {
	got := metacall.DomainSeparator(big.NewInt(1313161555))
	require.Equal(t, "d9ad1d3744e784a33ffb3e72b93c2405e0626b9e3f6fdadb0d62ccf212fbd86e", got.Hex()[2:])
}

func TestDomainSeparatorVariesWithChainID(t *testing.T) {
	a := metacall.DomainSeparator(big.NewInt(1))
	b := metacall.DomainSeparator(big.NewInt(2))
	require.NotEqual(t, a, b)
}
