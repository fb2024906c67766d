// Package xcc implements the cross-contract-call precompile: router
// deployment bookkeeping and the promise-graph synthesis pipeline that
// lets an EVM contract drive an arbitrary host-runtime call through a
// per-address router sub-account (spec §4.6).
package xcc

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
)

// StorageAmount is the NEAR attached to a router account's first
// CreateAccount so it can cover its own storage staking requirement.
// Expressed in yoctoNEAR, mirrored from the original engine's fixed
// constant: 2 NEAR = 2*10^24 yoctoNEAR, split into its hi:lo 64-bit
// halves.
var StorageAmount = hostio.NewBigUint128(108420, 4007528410413793280)

// Registry owns router-version bookkeeping: a per-address CodeVersion
// cell plus the single latest_code_version cell (spec §3 "RouterVersion").
type Registry struct {
	kv hostio.KVStore
}

// NewRegistry constructs a Registry bound to the given host key-value
// store.
func NewRegistry(kv hostio.KVStore) *Registry { return &Registry{kv: kv} }

var (
	latestVersionKey = []byte{0xf0}
	routerVersionTag = byte(0xf1)
	latestCodeKey    = []byte{0xf2}
)

func routerVersionKey(addr common.Address) []byte {
	return append([]byte{routerVersionTag}, addr.Bytes()...)
}

// LatestCodeVersion returns the single latest_code_version cell.
func (r *Registry) LatestCodeVersion() uint32 {
	raw, found := r.kv.Get(latestVersionKey)
	if !found {
		return 0
	}
	return binary.BigEndian.Uint32(raw)
}

// SetLatestCodeVersion is written by factory_update, alongside the
// router code bytes (see SetLatestCode, which persists both together).
func (r *Registry) SetLatestCodeVersion(v uint32) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	r.kv.Set(latestVersionKey, buf)
}

// LatestCode returns the router contract bytecode last installed by
// factory_update, or (nil, false) if none has ever been installed.
func (r *Registry) LatestCode() ([]byte, bool) {
	return r.kv.Get(latestCodeKey)
}

// SetLatestCode persists the router bytecode factory_update installs
// and bumps latest_code_version in the same call, so a pending
// per-address router deploy (NeedsDeploy) has real bytes to put in its
// ActionDeployContract step instead of only a version counter (spec
// §4.6 "Router ... code deployed per EVM address").
func (r *Registry) SetLatestCode(code []byte, version uint32) {
	r.kv.Set(latestCodeKey, append([]byte{}, code...))
	r.SetLatestCodeVersion(version)
}

// RouterVersion returns the CodeVersion recorded for addr, or (0, false)
// if the address has never had a router deployed.
func (r *Registry) RouterVersion(addr common.Address) (uint32, bool) {
	raw, found := r.kv.Get(routerVersionKey(addr))
	if !found {
		return 0, false
	}
	return binary.BigEndian.Uint32(raw), true
}

// SetRouterVersion is written by factory_update_address_version, the
// callback chained after a router deploy (spec §4.6 step 2). The
// invariant router_version(a) <= latest_code_version (spec §7) is the
// caller's responsibility: this setter does not itself compare against
// LatestCodeVersion since factory_update_address_version always sets a
// version that was the registry's latest at synthesis time (the record
// can be stale relative to a concurrent, as-yet-unapplied factory_update,
// which is a NEAR-side rare-race concern a callback implicitly sidesteps).
func (r *Registry) SetRouterVersion(addr common.Address, v uint32) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	r.kv.Set(routerVersionKey(addr), buf)
}

// NeedsDeploy reports whether addr's router is missing or stale
// relative to the registry's latest code version (spec §4.6 step 1).
func (r *Registry) NeedsDeploy(addr common.Address) bool {
	v, ok := r.RouterVersion(addr)
	if !ok {
		return true
	}
	return v < r.LatestCodeVersion()
}

// RouterAccount formats the host sub-account name for an EVM address's
// router (spec "Router ... deployed per EVM address at
// {addr_hex}.{engine_account}").
func RouterAccount(addr common.Address, engineAccount string) string {
	return fmt.Sprintf("%x.%s", addr.Bytes(), engineAccount)
}
