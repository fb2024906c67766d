package evmadapter

import (
	storetypes "cosmossdk.io/store/types"
)

// DefaultKVGasConfig mirrors cosmos-sdk's default root-store gas
// schedule (storetypes.KVGasConfig()), the same figures
// precompiles/common.Precompile.RequiredGas prices a stateful
// precompile call against.
func DefaultKVGasConfig() storetypes.GasConfig {
	return storetypes.KVGasConfig()
}

// GasUsed returns the cumulative KV-store gas charged since
// construction or the last ResetGasUsed.
func (a *Adapter) GasUsed() uint64 {
	return a.gasUsed
}

// ResetGasUsed zeroes the adapter's gas counter. Called once per
// Submit so accounting never leaks across transactions.
func (a *Adapter) ResetGasUsed() {
	a.gasUsed = 0
}

// chargeRead prices a storage read the same way
// Precompile.RequiredGas prices a query: a flat cost plus a per-byte
// cost scaled by the value read.
func (a *Adapter) chargeRead(value []byte) {
	a.gasUsed += a.gasConfig.ReadCostFlat + a.gasConfig.ReadCostPerByte*uint64(len(value))
}

// chargeWrite prices a storage write the same way
// Precompile.RequiredGas prices a transaction: a flat cost plus a
// per-byte cost scaled by the value written.
func (a *Adapter) chargeWrite(value []byte) {
	a.gasUsed += a.gasConfig.WriteCostFlat + a.gasConfig.WriteCostPerByte*uint64(len(value))
}
