// Package hostio defines the external-collaborator interfaces the
// engine is bridged to: the host key-value store and the host
// promise-scheduling API (spec §1 "Deliberately out of scope: ...
// persistent key–value store" and "promise" in the GLOSSARY). Nothing
// in this package has a concrete implementation here — production
// wiring supplies the host runtime's actual register-based I/O; tests
// supply an in-memory fake or a go.uber.org/mock double.
package hostio

//go:generate mockgen -destination=mocks_mock.go -package=hostio github.com/aurora-is-near/aurora-engine-go/internal/hostio KVStore,PromiseScheduler

// KVStore is the host-runtime key-value store the engine exclusively
// owns within its version prefix (spec §3 "Ownership").
type KVStore interface {
	Get(key []byte) (value []byte, found bool)
	Set(key, value []byte)
	Delete(key []byte)
	// Iterate calls fn for every key with the given prefix, in
	// ascending key order, until fn returns false or keys are
	// exhausted.
	Iterate(prefix []byte, fn func(key, value []byte) bool)
}

// Action is one step of a synthesized host-promise batch (spec §4.6,
// §9 "NearPromise / PromiseArgs").
type Action struct {
	Kind ActionKind
	// CreateAccount, Transfer, DeployContract and FunctionCall each use
	// a subset of these fields.
	Amount   *BigUint
	Code     []byte
	Method   string
	Args     []byte
	Gas      uint64
}

// ActionKind enumerates the batch-action variants the XCC precompile
// and eth-connector exit paths can synthesize.
type ActionKind int

const (
	ActionCreateAccount ActionKind = iota
	ActionTransfer
	ActionDeployContract
	ActionFunctionCall
)

// BigUint is a minimal stand-in for the host runtime's native 128-bit
// balance type, avoided as a direct dependency since it lives in the
// (out-of-scope) host SDK; internal/ft and internal/xcc convert to/from
// it at the boundary.
type BigUint struct {
	hi, lo uint64
}

// NewBigUint128 constructs a BigUint from its big-endian 128-bit
// representation (hi:lo).
func NewBigUint128(hi, lo uint64) BigUint {
	return BigUint{hi: hi, lo: lo}
}

// Hi and Lo expose the two 64-bit halves.
func (b BigUint) Hi() uint64 { return b.hi }
func (b BigUint) Lo() uint64 { return b.lo }

// Promise is a declarative, scheduled cross-contract call (GLOSSARY
// "Promise"). NearPromise is the recursive sum type from spec §9:
// Then{base, callback} / And([]NearPromise) / a plain batch of
// Actions targeting one receiver.
type Promise struct {
	Receiver string
	Actions  []Action
	Then     *Promise // nil unless this promise chains a callback
	And      []Promise
}

// PromiseScheduler is the host API surface for enqueuing promises and
// observing their results in a later invocation (GLOSSARY "Host
// runtime").
type PromiseScheduler interface {
	// Schedule enqueues a promise graph and returns an opaque id the
	// caller can thread into subsequent callback-attach calls.
	Schedule(p Promise) (id uint64, err error)
	// PromiseResult returns the outcome of the i-th promise this
	// receipt's predecessor scheduled, available only inside a
	// callback invocation.
	PromiseResult(i int) (ok bool, data []byte, failed bool)
	PromiseCount() int
}
