package stashconst

const (
	// StoragePriceKey is a key in contract config which contains the price
	// of one byte of metered registry storage, in GAS fractions.
	StoragePriceKey = "storagePrice"

	// DefaultStoragePrice is used when no price is provided on deploy. The
	// value matches the default storage price of the native Policy contract.
	DefaultStoragePrice = 100_000

	// ErrAlreadyInitialized is returned on attempt to initialize the
	// contract twice.
	ErrAlreadyInitialized = "contract is already initialized"

	// ErrStashNotFound is returned if the stash is missing.
	ErrStashNotFound = "stash does not exist"

	// ErrVaultNotFound is returned if the stash has no vault for the token.
	ErrVaultNotFound = "vault does not exist"

	// ErrOverflow is returned if a deposit would push a vault balance over
	// the 128-bit limit.
	ErrOverflow = "vault balance overflow"

	// ErrInsufficientBalance is returned if a withdrawal exceeds the vault
	// balance.
	ErrInsufficientBalance = "insufficient vault balance"

	// ErrInsufficientDeposit is returned if the attached payment does not
	// cover the metered storage cost of the call.
	ErrInsufficientDeposit = "insufficient storage deposit"

	// ErrNotAuthorized is returned if the caller is neither the stash owner
	// nor an authorized contributor.
	ErrNotAuthorized = "caller is not authorized for the stash"

	// ErrNotImplemented is returned by the depositSwap placeholder.
	ErrNotImplemented = "swap is not implemented"
)
