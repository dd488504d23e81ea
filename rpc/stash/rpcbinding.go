// Package stash contains RPC wrappers for Stash contract.
package stash

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// StashRefund is a contract-specific stash.Refund type used by its methods.
type StashRefund struct {
	To      util.Uint160
	Amount  *big.Int
	Details []byte
}

// StashStash is a contract-specific stash.Stash type used by its methods.
type StashStash struct {
	ID    *big.Int
	Name  string
	Owner util.Uint160
}

// StashVault is a contract-specific stash.Vault type used by its methods.
type StashVault struct {
	Token   util.Uint160
	Balance *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Get invokes `get` method of contract.
func (c *ContractReader) Get(stashID *big.Int) (*StashStash, error) {
	return itemToStashStash(unwrap.Item(c.invoker.Call(c.hash, "get", stashID)))
}

// IsContributor invokes `isContributor` method of contract.
func (c *ContractReader) IsContributor(stashID *big.Int, account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isContributor", stashID, account))
}

// ListStashes invokes `listStashes` method of contract.
func (c *ContractReader) ListStashes(account util.Uint160) ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "listStashes", account))
}

// PendingRefunds invokes `pendingRefunds` method of contract.
func (c *ContractReader) PendingRefunds() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "pendingRefunds"))
}

// PendingRefundsExpanded is similar to PendingRefunds (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) PendingRefundsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "pendingRefunds", _numOfIteratorItems))
}

// StashesOf invokes `stashesOf` method of contract.
func (c *ContractReader) StashesOf(account util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "stashesOf", account))
}

// StashesOfExpanded is similar to StashesOf (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) StashesOfExpanded(account util.Uint160, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "stashesOf", _numOfIteratorItems, account))
}

// StoragePrice invokes `storagePrice` method of contract.
func (c *ContractReader) StoragePrice() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "storagePrice"))
}

// StorageUsage invokes `storageUsage` method of contract.
func (c *ContractReader) StorageUsage() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "storageUsage"))
}

// TotalStashes invokes `totalStashes` method of contract.
func (c *ContractReader) TotalStashes() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalStashes"))
}

// VaultBalance invokes `vaultBalance` method of contract.
func (c *ContractReader) VaultBalance(stashID *big.Int, token util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "vaultBalance", stashID, token))
}

// Vaults invokes `vaults` method of contract.
func (c *ContractReader) Vaults(stashID *big.Int) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "vaults", stashID))
}

// VaultsExpanded is similar to Vaults (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) VaultsExpanded(stashID *big.Int, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "vaults", _numOfIteratorItems, stashID))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddLiquidity creates a transaction invoking `addLiquidity` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddLiquidity(caller util.Uint160, stashID *big.Int, token util.Uint160, amount *big.Int, payment *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addLiquidity", caller, stashID, token, amount, payment)
}

// AddLiquidityTransaction creates a transaction invoking `addLiquidity` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddLiquidityTransaction(caller util.Uint160, stashID *big.Int, token util.Uint160, amount *big.Int, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addLiquidity", caller, stashID, token, amount, payment)
}

// AddLiquidityUnsigned creates a transaction invoking `addLiquidity` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddLiquidityUnsigned(caller util.Uint160, stashID *big.Int, token util.Uint160, amount *big.Int, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addLiquidity", nil, caller, stashID, token, amount, payment)
}

// AddToken creates a transaction invoking `addToken` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddToken(caller util.Uint160, stashID *big.Int, token util.Uint160, payment *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addToken", caller, stashID, token, payment)
}

// AddTokenTransaction creates a transaction invoking `addToken` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddTokenTransaction(caller util.Uint160, stashID *big.Int, token util.Uint160, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addToken", caller, stashID, token, payment)
}

// AddTokenUnsigned creates a transaction invoking `addToken` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddTokenUnsigned(caller util.Uint160, stashID *big.Int, token util.Uint160, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addToken", nil, caller, stashID, token, payment)
}

// AuthorizeContributor creates a transaction invoking `authorizeContributor` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AuthorizeContributor(owner util.Uint160, stashID *big.Int, account util.Uint160, payment *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "authorizeContributor", owner, stashID, account, payment)
}

// AuthorizeContributorTransaction creates a transaction invoking `authorizeContributor` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AuthorizeContributorTransaction(owner util.Uint160, stashID *big.Int, account util.Uint160, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "authorizeContributor", owner, stashID, account, payment)
}

// AuthorizeContributorUnsigned creates a transaction invoking `authorizeContributor` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AuthorizeContributorUnsigned(owner util.Uint160, stashID *big.Int, account util.Uint160, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "authorizeContributor", nil, owner, stashID, account, payment)
}

// CreateStash creates a transaction invoking `createStash` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateStash(owner util.Uint160, name string, payment *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createStash", owner, name, payment)
}

// CreateStashTransaction creates a transaction invoking `createStash` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateStashTransaction(owner util.Uint160, name string, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createStash", owner, name, payment)
}

// CreateStashUnsigned creates a transaction invoking `createStash` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateStashUnsigned(owner util.Uint160, name string, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createStash", nil, owner, name, payment)
}

// DepositSwap creates a transaction invoking `depositSwap` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DepositSwap(caller util.Uint160, stashID *big.Int, tokenIn util.Uint160, tokenOut util.Uint160, amountIn *big.Int, minAmountOut *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "depositSwap", caller, stashID, tokenIn, tokenOut, amountIn, minAmountOut)
}

// DepositSwapTransaction creates a transaction invoking `depositSwap` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositSwapTransaction(caller util.Uint160, stashID *big.Int, tokenIn util.Uint160, tokenOut util.Uint160, amountIn *big.Int, minAmountOut *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "depositSwap", caller, stashID, tokenIn, tokenOut, amountIn, minAmountOut)
}

// DepositSwapUnsigned creates a transaction invoking `depositSwap` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositSwapUnsigned(caller util.Uint160, stashID *big.Int, tokenIn util.Uint160, tokenOut util.Uint160, amountIn *big.Int, minAmountOut *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "depositSwap", nil, caller, stashID, tokenIn, tokenOut, amountIn, minAmountOut)
}

// ProcessRefunds creates a transaction invoking `processRefunds` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ProcessRefunds(limit *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "processRefunds", limit)
}

// ProcessRefundsTransaction creates a transaction invoking `processRefunds` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ProcessRefundsTransaction(limit *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "processRefunds", limit)
}

// ProcessRefundsUnsigned creates a transaction invoking `processRefunds` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ProcessRefundsUnsigned(limit *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "processRefunds", nil, limit)
}

// RemoveLiquidity creates a transaction invoking `removeLiquidity` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveLiquidity(caller util.Uint160, stashID *big.Int, token util.Uint160, amount *big.Int, payment *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeLiquidity", caller, stashID, token, amount, payment)
}

// RemoveLiquidityTransaction creates a transaction invoking `removeLiquidity` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveLiquidityTransaction(caller util.Uint160, stashID *big.Int, token util.Uint160, amount *big.Int, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeLiquidity", caller, stashID, token, amount, payment)
}

// RemoveLiquidityUnsigned creates a transaction invoking `removeLiquidity` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveLiquidityUnsigned(caller util.Uint160, stashID *big.Int, token util.Uint160, amount *big.Int, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeLiquidity", nil, caller, stashID, token, amount, payment)
}

// RemoveStash creates a transaction invoking `removeStash` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveStash(owner util.Uint160, stashID *big.Int, payment *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeStash", owner, stashID, payment)
}

// RemoveStashTransaction creates a transaction invoking `removeStash` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveStashTransaction(owner util.Uint160, stashID *big.Int, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeStash", owner, stashID, payment)
}

// RemoveStashUnsigned creates a transaction invoking `removeStash` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveStashUnsigned(owner util.Uint160, stashID *big.Int, payment *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeStash", nil, owner, stashID, payment)
}

// SetStoragePrice creates a transaction invoking `setStoragePrice` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetStoragePrice(price *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setStoragePrice", price)
}

// SetStoragePriceTransaction creates a transaction invoking `setStoragePrice` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetStoragePriceTransaction(price *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setStoragePrice", price)
}

// SetStoragePriceUnsigned creates a transaction invoking `setStoragePrice` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetStoragePriceUnsigned(price *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setStoragePrice", nil, price)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToStashRefund converts stack item into *StashRefund.
func itemToStashRefund(item stackitem.Item, err error) (*StashRefund, error) {
	if err != nil {
		return nil, err
	}
	var res = new(StashRefund)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of StashRefund from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *StashRefund) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.To, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	res.Details, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Details: %w", err)
	}

	return nil
}

// itemToStashStash converts stack item into *StashStash.
func itemToStashStash(item stackitem.Item, err error) (*StashStash, error) {
	if err != nil {
		return nil, err
	}
	var res = new(StashStash)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of StashStash from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *StashStash) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Name, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Owner, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return nil
}

// itemToStashVault converts stack item into *StashVault.
func itemToStashVault(item stackitem.Item, err error) (*StashVault, error) {
	if err != nil {
		return nil, err
	}
	var res = new(StashVault)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of StashVault from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *StashVault) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Token, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	index++
	res.Balance, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	return nil
}
