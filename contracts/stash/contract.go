package stash

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/stashfi/stash-contract/common"
	cst "github.com/stashfi/stash-contract/contracts/stash/stashconst"
)

type (
	// Stash is a named treasury owned by the account that created it.
	Stash struct {
		ID    int
		Name  string
		Owner interop.Hash160
	}

	// Vault is a single token balance inside a stash.
	Vault struct {
		Token   interop.Hash160
		Balance int
	}

	// Refund is a scheduled return of the part of a storage deposit
	// exceeding the metered cost of the call that attached it.
	Refund struct {
		To      interop.Hash160
		Amount  int
		Details []byte
	}
)

const (
	stashKeyPrefix       = 'x'
	vaultKeyPrefix       = 'v'
	contributorKeyPrefix = 'c'
	ownerKeyPrefix       = 'o'
	refundKeyPrefix      = 'r'

	stashCounterKey = "id"
	// refundCounterKey must stay outside the 'r' keyspace, the refund
	// queue is iterated by that prefix.
	refundCounterKey = "q"

	// stashIDSize is the fixed width of a big-endian stash id in storage
	// keys. Fixed width keeps storage.Find order numeric.
	stashIDSize = 8
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if storage.Get(ctx, stashCounterKey) != nil {
		panic(cst.ErrAlreadyInitialized)
	}

	price := cst.DefaultStoragePrice
	if data != nil {
		args := data.([]any)
		if len(args) >= 1 {
			p := args[0].(int)
			if p > 0 {
				price = p
			}
		}
	}

	storage.Put(ctx, cst.StoragePriceKey, price)
	storage.Put(ctx, stashCounterKey, 0)
	storage.Put(ctx, refundCounterKey, 0)

	runtime.Log("stash contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// by committee only.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("stash contract updated")
}

// OnNEP17Payment accepts GAS transfers into the contract account, which is
// how storage deposits and the refund reserve arrive. Any other token is
// rejected.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if !runtime.GetCallingScriptHash().Equals(interop.Hash160(gas.Hash)) {
		panic("only GAS is accepted")
	}
}

// CreateStash creates a new empty stash owned by the witnessed owner account
// and indexes its id under the owner. Ids come from a monotonic counter and
// are never reused, even after a stash is removed. The method is payable:
// payment must cover the metered storage growth, any excess is scheduled for
// refund. It returns the id of the new stash.
func CreateStash(owner interop.Hash160, name string, payment int) int {
	checkAccount(owner, "owner")
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	usageBefore := common.StorageUsage(ctx)

	id := nextStashID(ctx)
	common.MeteredPutSerialized(ctx, stashKey(id), Stash{
		ID:    id,
		Name:  name,
		Owner: owner,
	})
	common.MeteredPut(ctx, ownerIndexKey(owner, id), stashIDBytes(id))

	settleStorageDeposit(ctx, owner, id, payment, usageBefore)

	runtime.Log("stash has been created")
	runtime.Notify("StashCreated", id, owner, name)
	return id
}

// AddToken registers a zero-balance vault for the token inside the stash. It
// does nothing if the vault already exists. The caller must be the stash
// owner or an authorized contributor. The method is payable.
func AddToken(caller interop.Hash160, stashID int, token interop.Hash160, payment int) {
	checkAccount(token, "token contract")

	ctx := storage.GetContext()
	s := getStash(ctx, stashID)
	checkContributorAccess(ctx, s, caller)

	usageBefore := common.StorageUsage(ctx)

	key := vaultKey(stashID, token)
	if storage.Get(ctx, key) == nil {
		common.MeteredPutSerialized(ctx, key, Vault{Token: token, Balance: 0})
	}

	settleStorageDeposit(ctx, caller, stashID, payment, usageBefore)

	runtime.Notify("TokenAdded", stashID, token)
}

// DepositSwap is a reserved method for swapping amountIn of tokenIn held by
// the stash into at least minAmountOut of tokenOut through an external
// exchange contract. The intended behavior: debit amountIn from the tokenIn
// vault, call the exchange, credit the returned amount to the tokenOut vault
// (creating it if absent); if the exchange reverts, the debit must not
// survive. No exchange contract is integrated yet, so the method always
// fails.
func DepositSwap(caller interop.Hash160, stashID int, tokenIn, tokenOut interop.Hash160, amountIn, minAmountOut int) {
	panic(cst.ErrNotImplemented)
}

// AddLiquidity deposits amount of the token into the stash's vault, creating
// the vault if it does not exist yet. Vault balances are capped at 2^128-1,
// a deposit over the cap fails. The caller must be the stash owner or an
// authorized contributor. The method is payable.
func AddLiquidity(caller interop.Hash160, stashID int, token interop.Hash160, amount, payment int) {
	checkAccount(token, "token contract")
	if amount < 0 {
		panic("negative amount")
	}

	ctx := storage.GetContext()
	s := getStash(ctx, stashID)
	checkContributorAccess(ctx, s, caller)

	usageBefore := common.StorageUsage(ctx)

	v := Vault{Token: token, Balance: 0}
	key := vaultKey(stashID, token)
	data := storage.Get(ctx, key)
	if data != nil {
		v = std.Deserialize(data.([]byte)).(Vault)
	}

	if v.Balance > maxVaultBalance()-amount {
		panic(cst.ErrOverflow)
	}
	v.Balance += amount
	common.MeteredPutSerialized(ctx, key, v)

	settleStorageDeposit(ctx, caller, stashID, payment, usageBefore)

	runtime.Notify("LiquidityAdded", stashID, token, amount)
}

// RemoveLiquidity withdraws amount of the token from the stash's vault. The
// vault must exist and hold at least amount, the balance is never driven
// below zero. The caller must be the stash owner or an authorized
// contributor. The method is payable, although a withdrawal never grows
// storage, so the whole payment is scheduled for refund.
func RemoveLiquidity(caller interop.Hash160, stashID int, token interop.Hash160, amount, payment int) {
	checkAccount(token, "token contract")
	if amount < 0 {
		panic("negative amount")
	}

	ctx := storage.GetContext()
	s := getStash(ctx, stashID)
	checkContributorAccess(ctx, s, caller)

	usageBefore := common.StorageUsage(ctx)

	key := vaultKey(stashID, token)
	data := storage.Get(ctx, key)
	if data == nil {
		panic(cst.ErrVaultNotFound)
	}
	v := std.Deserialize(data.([]byte)).(Vault)

	if amount > v.Balance {
		panic(cst.ErrInsufficientBalance)
	}
	v.Balance -= amount
	common.MeteredPutSerialized(ctx, key, v)

	settleStorageDeposit(ctx, caller, stashID, payment, usageBefore)

	runtime.Notify("LiquidityRemoved", stashID, token, amount)
}

// AuthorizeContributor grants the account the right to mutate the stash's
// vaults. It can be invoked by the stash owner only and does nothing if the
// account is already authorized. The method is payable.
func AuthorizeContributor(owner interop.Hash160, stashID int, account interop.Hash160, payment int) {
	checkAccount(account, "contributor account")

	ctx := storage.GetContext()
	s := getStash(ctx, stashID)
	checkOwnerAccess(s, owner)

	usageBefore := common.StorageUsage(ctx)

	key := contributorKey(stashID, account)
	if storage.Get(ctx, key) == nil {
		common.MeteredPut(ctx, key, []byte{1})
	}

	settleStorageDeposit(ctx, owner, stashID, payment, usageBefore)

	runtime.Notify("ContributorAuthorized", stashID, account)
}

// RemoveStash deletes the stash with all its vaults and contributor grants
// and prunes the owner index entry, so that ListStashes never returns a dead
// id. It can be invoked by the stash owner only. Removal frees storage, its
// metered cost is zero and the whole payment is scheduled for refund.
func RemoveStash(owner interop.Hash160, stashID int, payment int) {
	ctx := storage.GetContext()
	s := getStash(ctx, stashID)
	checkOwnerAccess(s, owner)

	usageBefore := common.StorageUsage(ctx)

	idb := stashIDBytes(stashID)
	deleteByPrefix(ctx, append([]byte{vaultKeyPrefix}, idb...))
	deleteByPrefix(ctx, append([]byte{contributorKeyPrefix}, idb...))
	common.MeteredDelete(ctx, ownerIndexKey(s.Owner, stashID))
	common.MeteredDelete(ctx, stashKey(stashID))

	settleStorageDeposit(ctx, owner, stashID, payment, usageBefore)

	runtime.Log("stash has been removed")
	runtime.Notify("StashRemoved", stashID)
}

// ProcessRefunds drains up to limit entries of the pending refund queue,
// transferring the recorded GAS amounts from the contract account back to
// the depositors. Zero limit drains the whole queue. Anyone can invoke it.
// A failed transfer drops the entry and produces RefundFailed notification,
// it never affects the mutation that scheduled the refund. Returns the
// number of processed entries.
func ProcessRefunds(limit int) int {
	ctx := storage.GetContext()
	self := runtime.GetExecutingScriptHash()

	keys := [][]byte{}
	it := storage.Find(ctx, []byte{refundKeyPrefix}, storage.KeysOnly)
	for iterator.Next(it) {
		if limit > 0 && len(keys) == limit {
			break
		}
		keys = append(keys, iterator.Value(it).([]byte))
	}

	for _, key := range keys {
		data := storage.Get(ctx, key)
		r := std.Deserialize(data.([]byte)).(Refund)
		storage.Delete(ctx, key)

		if !gas.Transfer(self, r.To, r.Amount, r.Details) {
			runtime.Notify("RefundFailed", r.To, r.Amount)
		}
	}

	return len(keys)
}

// PendingRefunds returns an iterator over scheduled but not yet processed
// refunds. The iterator items are Refund structures ordered by scheduling
// sequence.
func PendingRefunds() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{refundKeyPrefix}, storage.ValuesOnly|storage.DeserializeValues)
}

// Get returns the Stash structure stored under the id.
//
// If the stash doesn't exist, it panics with ErrStashNotFound.
func Get(stashID int) Stash {
	ctx := storage.GetReadOnlyContext()
	return getStash(ctx, stashID)
}

// VaultBalance returns the balance of the stash's vault for the token.
//
// It panics with ErrStashNotFound or ErrVaultNotFound if either is missing.
func VaultBalance(stashID int, token interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	getStash(ctx, stashID)

	data := storage.Get(ctx, vaultKey(stashID, token))
	if data == nil {
		panic(cst.ErrVaultNotFound)
	}

	return std.Deserialize(data.([]byte)).(Vault).Balance
}

// Vaults returns an iterator over all vaults of the stash. The iterator
// items are Vault structures.
func Vaults(stashID int) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	getStash(ctx, stashID)

	prefix := append([]byte{vaultKeyPrefix}, stashIDBytes(stashID)...)
	return storage.Find(ctx, prefix, storage.ValuesOnly|storage.DeserializeValues)
}

// IsContributor returns true if the account has been authorized to
// contribute to the stash.
func IsContributor(stashID int, account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	getStash(ctx, stashID)

	return storage.Get(ctx, contributorKey(stashID, account)) != nil
}

// ListStashes returns ids of all live stashes created by the account, in
// ascending id order. An account with no stashes yields an empty list.
func ListStashes(account interop.Hash160) []int {
	ctx := storage.GetReadOnlyContext()

	list := []int{}
	it := storage.Find(ctx, append([]byte{ownerKeyPrefix}, account...), storage.ValuesOnly)
	for iterator.Next(it) {
		list = append(list, stashIDFromBytes(iterator.Value(it).([]byte)))
	}

	return list
}

// StashesOf is an iterator flavor of ListStashes. The iterator items are
// big-endian stash id representations.
func StashesOf(account interop.Hash160) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{ownerKeyPrefix}, account...), storage.ValuesOnly)
}

// TotalStashes returns the number of live stashes.
func TotalStashes() int {
	count := 0
	ctx := storage.GetReadOnlyContext()
	it := storage.Find(ctx, []byte{stashKeyPrefix}, storage.KeysOnly)
	for iterator.Next(it) {
		count++
	}
	return count
}

// StoragePrice returns the configured price of one metered storage byte, in
// GAS fractions.
func StoragePrice() int {
	ctx := storage.GetReadOnlyContext()
	return storagePrice(ctx)
}

// SetStoragePrice changes the price of one metered storage byte. It can be
// invoked by committee only.
func SetStoragePrice(price int) {
	if !common.HasUpdateAccess() {
		panic("only committee can set storage price")
	}
	if price <= 0 {
		panic("non-positive storage price")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, cst.StoragePriceKey, price)
	runtime.Log("storage price updated")
}

// StorageUsage returns the number of bytes currently occupied by metered
// registry entries.
func StorageUsage() int {
	ctx := storage.GetReadOnlyContext()
	return common.StorageUsage(ctx)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// settleStorageDeposit reconciles the attached payment against the metered
// storage growth since usageBefore. Storage that was freed costs nothing. A
// payment below the cost aborts the whole call, so no state change of the
// triggering operation survives. Otherwise the payment is pulled in GAS from
// the witnessed payer and the excess, if any, is put on the refund queue.
func settleStorageDeposit(ctx storage.Context, payer interop.Hash160, stashID, payment, usageBefore int) {
	if payment < 0 {
		panic("negative payment")
	}

	delta := common.StorageUsage(ctx) - usageBefore
	if delta < 0 {
		delta = 0
	}
	cost := delta * storagePrice(ctx)

	if payment < cost {
		panic(cst.ErrInsufficientDeposit + ": need " + std.Itoa(cost, 10) +
			", attached " + std.Itoa(payment, 10))
	}

	if payment == 0 {
		return
	}

	if !gas.Transfer(payer, runtime.GetExecutingScriptHash(), payment, nil) {
		panic("storage deposit transfer failed")
	}

	if payment > cost {
		scheduleRefund(ctx, payer, stashID, payment-cost)
	}
}

// scheduleRefund puts a refund entry on the queue. The transfer details
// carry the stash id and the queue sequence number, which makes the refund
// attributable and unique per triggering call.
func scheduleRefund(ctx storage.Context, to interop.Hash160, stashID, amount int) {
	seq := nextRefundSeq(ctx)
	common.SetSerialized(ctx, refundKey(seq), Refund{
		To:      to,
		Amount:  amount,
		Details: common.RefundTransferDetails(stashID, seq),
	})

	runtime.Notify("RefundScheduled", to, amount, seq)
}

func checkOwnerAccess(s Stash, owner interop.Hash160) {
	checkAccount(owner, "owner")
	common.CheckOwnerWitness(owner)
	if !owner.Equals(s.Owner) {
		panic(cst.ErrNotAuthorized)
	}
}

func checkContributorAccess(ctx storage.Context, s Stash, caller interop.Hash160) {
	checkAccount(caller, "caller")
	common.CheckWitness(caller)
	if caller.Equals(s.Owner) {
		return
	}
	if storage.Get(ctx, contributorKey(s.ID, caller)) == nil {
		panic(cst.ErrNotAuthorized)
	}
}

func checkAccount(acc interop.Hash160, what string) {
	if len(acc) != interop.Hash160Len {
		panic("incorrect " + what)
	}
}

func getStash(ctx storage.Context, id int) Stash {
	data := storage.Get(ctx, stashKey(id))
	if data == nil {
		panic(cst.ErrStashNotFound)
	}

	return std.Deserialize(data.([]byte)).(Stash)
}

func storagePrice(ctx storage.Context) int {
	price := storage.Get(ctx, cst.StoragePriceKey)
	if price == nil {
		return cst.DefaultStoragePrice
	}

	return price.(int)
}

func nextStashID(ctx storage.Context) int {
	id := storage.Get(ctx, stashCounterKey).(int)
	storage.Put(ctx, stashCounterKey, id+1)
	return id
}

func nextRefundSeq(ctx storage.Context) int {
	seq := storage.Get(ctx, refundCounterKey).(int)
	storage.Put(ctx, refundCounterKey, seq+1)
	return seq
}

func deleteByPrefix(ctx storage.Context, prefix []byte) {
	keys := [][]byte{}

	it := storage.Find(ctx, prefix, storage.KeysOnly)
	for iterator.Next(it) {
		keys = append(keys, iterator.Value(it).([]byte))
	}

	for _, key := range keys {
		common.MeteredDelete(ctx, key)
	}
}

func stashKey(id int) []byte {
	return append([]byte{stashKeyPrefix}, stashIDBytes(id)...)
}

func vaultKey(id int, token interop.Hash160) []byte {
	key := append([]byte{vaultKeyPrefix}, stashIDBytes(id)...)
	return append(key, token...)
}

func contributorKey(id int, account interop.Hash160) []byte {
	key := append([]byte{contributorKeyPrefix}, stashIDBytes(id)...)
	return append(key, account...)
}

func ownerIndexKey(account interop.Hash160, id int) []byte {
	key := append([]byte{ownerKeyPrefix}, account...)
	return append(key, stashIDBytes(id)...)
}

func refundKey(seq int) []byte {
	return append([]byte{refundKeyPrefix}, stashIDBytes(seq)...)
}

// stashIDBytes converts an id to its fixed-width big-endian representation.
func stashIDBytes(id int) []byte {
	le := convert.ToBytes(id)

	be := make([]byte, stashIDSize)
	for i := 0; i < len(le) && i < stashIDSize; i++ {
		be[stashIDSize-1-i] = le[i]
	}

	return be
}

func stashIDFromBytes(be []byte) int {
	le := []byte{}
	for i := len(be) - 1; i >= 0; i-- {
		le = append(le, be[i])
	}
	// extra zero byte keeps the integer positive
	le = append(le, 0)

	return convert.ToInteger(le)
}

// maxVaultBalance is the 128-bit cap of a vault balance, 2^128-1 as a
// positive little-endian integer.
func maxVaultBalance() int {
	return convert.ToInteger([]byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0x00,
	})
}
