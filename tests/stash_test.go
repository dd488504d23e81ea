package tests

import (
	"encoding/json"
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stashfi/stash-contract/common"
	"github.com/stashfi/stash-contract/contracts/stash/stashconst"
	"github.com/stretchr/testify/require"
)

const stashPath = "../contracts/stash"

// storage price of 1 GAS fraction per byte keeps the deposit math in tests
// readable: cost == metered bytes.
const testStoragePrice = 1

// payment is 1.0 GAS, enough for any single mutation at the test price.
const payment = int64(1_0000_0000)

func compileStashContract(t *testing.T, e *neotest.Executor) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, stashPath, path.Join(stashPath, "config.yml"))
}

func newStashInvoker(t *testing.T) (*neotest.Executor, *neotest.ContractInvoker) {
	e := newExecutor(t)
	ctr := compileStashContract(t, e)
	e.DeployContract(t, ctr, []interface{}{int64(testStoragePrice)})
	return e, e.CommitteeInvoker(ctr.Hash)
}

func storageUsage(t *testing.T, c *neotest.ContractInvoker) int64 {
	s, err := c.TestInvoke(t, "storageUsage")
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

// scheduledRefund extracts recipient and amount from the RefundScheduled
// notification of the execution result.
func scheduledRefund(t *testing.T, aer *state.AppExecResult) (util.Uint160, *big.Int) {
	for _, ev := range aer.Events {
		if ev.Name != "RefundScheduled" {
			continue
		}
		items := ev.Item.Value().([]stackitem.Item)
		require.Len(t, items, 3)

		rawTo, err := items[0].TryBytes()
		require.NoError(t, err)
		to, err := util.Uint160DecodeBytesBE(rawTo)
		require.NoError(t, err)

		amount, err := items[1].TryInteger()
		require.NoError(t, err)
		return to, amount
	}
	t.Fatal("no RefundScheduled notification")
	return util.Uint160{}, nil
}

func createStash(t *testing.T, c *neotest.ContractInvoker, owner neotest.Signer,
	name string, expectedID int64) *state.AppExecResult {
	h := c.WithSigners(owner).Invoke(t, expectedID, "createStash", owner.ScriptHash(), name, payment)
	return c.CheckHalt(t, h)
}

func TestDeploy(t *testing.T) {
	_, c := newStashInvoker(t)

	c.Invoke(t, 0, "totalStashes")
	c.Invoke(t, testStoragePrice, "storagePrice")
	c.Invoke(t, common.Version, "version")
}

func TestCreateStash(t *testing.T) {
	e, c := newStashInvoker(t)
	acc := e.NewAccount(t)

	aer := createStash(t, c, acc, "Roommates", 0)

	c.Invoke(t, 1, "totalStashes")
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{stackitem.Make(0)}),
		"listStashes", acc.ScriptHash())

	s, err := c.TestInvoke(t, "get", 0)
	require.NoError(t, err)
	fields := s.Pop().Array()
	require.Len(t, fields, 3)
	id, err := fields[0].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 0, id.Int64())
	name, err := fields[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "Roommates", string(name))
	owner, err := fields[2].TryBytes()
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash().BytesBE(), owner)

	// the whole payment minus the metered bytes must be scheduled back
	usage := storageUsage(t, c)
	to, amount := scheduledRefund(t, aer)
	require.Equal(t, acc.ScriptHash(), to)
	require.EqualValues(t, payment-usage*testStoragePrice, amount.Int64())

	t.Run("insufficient deposit", func(t *testing.T) {
		usageBefore := storageUsage(t, c)

		c.WithSigners(acc).InvokeFail(t, stashconst.ErrInsufficientDeposit,
			"createStash", acc.ScriptHash(), "Band", int64(1))

		// nothing of the aborted call persists
		c.Invoke(t, 1, "totalStashes")
		require.Equal(t, usageBefore, storageUsage(t, c))
	})

	t.Run("witness check", func(t *testing.T) {
		stranger := e.NewAccount(t)

		c.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"createStash", acc.ScriptHash(), "Forged", payment)
	})
}

func TestAddToken(t *testing.T) {
	e, c := newStashInvoker(t)
	acc := e.NewAccount(t)
	ownerInv := c.WithSigners(acc)

	token := util.Uint160{0xde, 0xad, 0xbe, 0xef}

	ownerInv.InvokeFail(t, stashconst.ErrStashNotFound,
		"addToken", acc.ScriptHash(), int64(0), token, payment)

	createStash(t, c, acc, "Roommates", 0)

	ownerInv.Invoke(t, stackitem.Null{}, "addToken", acc.ScriptHash(), int64(0), token, payment)
	c.Invoke(t, 0, "vaultBalance", int64(0), token)

	// registering the same vault again is a no-op, the payment comes back
	usageBefore := storageUsage(t, c)

	h := ownerInv.Invoke(t, stackitem.Null{}, "addToken", acc.ScriptHash(), int64(0), token, payment)
	aer := c.CheckHalt(t, h)

	_, amount := scheduledRefund(t, aer)
	require.EqualValues(t, payment, amount.Int64())
	require.Equal(t, usageBefore, storageUsage(t, c))
}

func TestLiquidityRoundTrip(t *testing.T) {
	e, c := newStashInvoker(t)
	acc := e.NewAccount(t)
	ownerInv := c.WithSigners(acc)

	token := util.Uint160{0x01}
	createStash(t, c, acc, "Roommates", 0)

	// deposit creates the vault implicitly
	ownerInv.Invoke(t, stackitem.Null{}, "addLiquidity", acc.ScriptHash(), int64(0), token, int64(100), payment)
	c.Invoke(t, 100, "vaultBalance", int64(0), token)

	ownerInv.Invoke(t, stackitem.Null{}, "removeLiquidity", acc.ScriptHash(), int64(0), token, int64(40), payment)
	c.Invoke(t, 60, "vaultBalance", int64(0), token)

	s, err := c.TestInvoke(t, "vaults", int64(0))
	require.NoError(t, err)
	items := iteratorToArray(s.Pop().Value().(*storage.Iterator))
	require.Len(t, items, 1)
	vault := items[0].Value().([]stackitem.Item)
	rawToken, err := vault[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, token.BytesBE(), rawToken)
	balance, err := vault[1].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 60, balance.Int64())

	t.Run("withdrawal over balance", func(t *testing.T) {
		ownerInv.InvokeFail(t, stashconst.ErrInsufficientBalance,
			"removeLiquidity", acc.ScriptHash(), int64(0), token, int64(1000), payment)

		c.Invoke(t, 60, "vaultBalance", int64(0), token)
	})

	t.Run("unknown vault", func(t *testing.T) {
		other := util.Uint160{0x02}
		ownerInv.InvokeFail(t, stashconst.ErrVaultNotFound,
			"removeLiquidity", acc.ScriptHash(), int64(0), other, int64(1), payment)
	})

	t.Run("unknown stash", func(t *testing.T) {
		ownerInv.InvokeFail(t, stashconst.ErrStashNotFound,
			"addLiquidity", acc.ScriptHash(), int64(42), token, int64(10), payment)
	})
}

func TestLiquidityOverflow(t *testing.T) {
	e, c := newStashInvoker(t)
	acc := e.NewAccount(t)
	ownerInv := c.WithSigners(acc)

	token := util.Uint160{0x01}
	createStash(t, c, acc, "Whales", 0)

	maxBalance := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	ownerInv.Invoke(t, stackitem.Null{}, "addLiquidity", acc.ScriptHash(), int64(0), token, maxBalance, payment)
	ownerInv.InvokeFail(t, stashconst.ErrOverflow,
		"addLiquidity", acc.ScriptHash(), int64(0), token, int64(1), payment)
}

func TestAuthorizeContributor(t *testing.T) {
	e, c := newStashInvoker(t)
	owner := e.NewAccount(t)
	friend := e.NewAccount(t)
	stranger := e.NewAccount(t)

	token := util.Uint160{0x01}
	createStash(t, c, owner, "Roommates", 0)

	c.WithSigners(stranger).InvokeFail(t, stashconst.ErrNotAuthorized,
		"addLiquidity", stranger.ScriptHash(), int64(0), token, int64(5), payment)

	c.WithSigners(owner).Invoke(t, stackitem.Null{},
		"authorizeContributor", owner.ScriptHash(), int64(0), friend.ScriptHash(), payment)
	c.Invoke(t, true, "isContributor", int64(0), friend.ScriptHash())
	c.Invoke(t, false, "isContributor", int64(0), stranger.ScriptHash())

	c.WithSigners(friend).Invoke(t, stackitem.Null{},
		"addLiquidity", friend.ScriptHash(), int64(0), token, int64(5), payment)
	c.Invoke(t, 5, "vaultBalance", int64(0), token)

	t.Run("contributor cannot grant", func(t *testing.T) {
		c.WithSigners(friend).InvokeFail(t, stashconst.ErrNotAuthorized,
			"authorizeContributor", friend.ScriptHash(), int64(0), stranger.ScriptHash(), payment)
	})

	t.Run("repeated grant is free", func(t *testing.T) {
		h := c.WithSigners(owner).Invoke(t, stackitem.Null{},
			"authorizeContributor", owner.ScriptHash(), int64(0), friend.ScriptHash(), payment)
		aer := c.CheckHalt(t, h)

		_, amount := scheduledRefund(t, aer)
		require.EqualValues(t, payment, amount.Int64())
	})
}

func TestRemoveStash(t *testing.T) {
	e, c := newStashInvoker(t)
	owner := e.NewAccount(t)
	friend := e.NewAccount(t)

	token := util.Uint160{0x01}
	createStash(t, c, owner, "Roommates", 0)

	c.WithSigners(owner).Invoke(t, stackitem.Null{},
		"addLiquidity", owner.ScriptHash(), int64(0), token, int64(100), payment)
	c.WithSigners(owner).Invoke(t, stackitem.Null{},
		"authorizeContributor", owner.ScriptHash(), int64(0), friend.ScriptHash(), payment)

	t.Run("contributor cannot remove", func(t *testing.T) {
		c.WithSigners(friend).InvokeFail(t, stashconst.ErrNotAuthorized,
			"removeStash", friend.ScriptHash(), int64(0), payment)
	})

	h := c.WithSigners(owner).Invoke(t, stackitem.Null{}, "removeStash", owner.ScriptHash(), int64(0), payment)
	aer := c.CheckHalt(t, h)

	// removal frees everything: zero cost, the whole payment comes back
	_, amount := scheduledRefund(t, aer)
	require.EqualValues(t, payment, amount.Int64())

	// the owner index must not reference the dead id
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{}), "listStashes", owner.ScriptHash())
	c.InvokeFail(t, stashconst.ErrStashNotFound, "get", int64(0))

	// the stash, its vaults, grants and index entry are all released
	c.Invoke(t, 0, "storageUsage")

	t.Run("ids are not reused", func(t *testing.T) {
		createStash(t, c, owner, "Band", 1)
	})
}

func TestStashesOf(t *testing.T) {
	e, c := newStashInvoker(t)
	alice := e.NewAccount(t)
	bob := e.NewAccount(t)

	createStash(t, c, alice, "Roommates", 0)
	createStash(t, c, bob, "Band", 1)
	createStash(t, c, alice, "Vacation", 2)

	c.Invoke(t, stackitem.NewArray([]stackitem.Item{stackitem.Make(0), stackitem.Make(2)}),
		"listStashes", alice.ScriptHash())

	s, err := c.TestInvoke(t, "stashesOf", bob.ScriptHash())
	require.NoError(t, err)
	items := iteratorToArray(s.Pop().Value().(*storage.Iterator))
	require.Len(t, items, 1)
	rawID, err := items[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, rawID)
}

func TestProcessRefunds(t *testing.T) {
	e, c := newStashInvoker(t)
	acc := e.NewAccount(t)

	aer := createStash(t, c, acc, "Roommates", 0)
	_, amount := scheduledRefund(t, aer)
	require.True(t, amount.Sign() > 0)

	s, err := c.TestInvoke(t, "pendingRefunds")
	require.NoError(t, err)
	items := iteratorToArray(s.Pop().Value().(*storage.Iterator))
	require.Len(t, items, 1)
	refund := items[0].Value().([]stackitem.Item)
	rawTo, err := refund[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash().BytesBE(), rawTo)
	queued, err := refund[1].TryInteger()
	require.NoError(t, err)
	require.Equal(t, amount, queued)
	details, err := refund[2].TryBytes()
	require.NoError(t, err)
	require.NotEmpty(t, details)

	// anyone can drain the queue; the depositor gets the GAS back
	balanceBefore := e.Chain.GetUtilityTokenBalance(acc.ScriptHash())

	stranger := e.NewAccount(t)
	c.WithSigners(stranger).Invoke(t, 1, "processRefunds", int64(0))
	c.WithSigners(stranger).Invoke(t, 0, "processRefunds", int64(0))

	balanceAfter := e.Chain.GetUtilityTokenBalance(acc.ScriptHash())
	require.Equal(t, amount, new(big.Int).Sub(balanceAfter, balanceBefore))

	s, err = c.TestInvoke(t, "pendingRefunds")
	require.NoError(t, err)
	require.Empty(t, iteratorToArray(s.Pop().Value().(*storage.Iterator)))

	t.Run("queue survives draining", func(t *testing.T) {
		aer := createStash(t, c, acc, "Band", 1)
		_, next := scheduledRefund(t, aer)
		require.True(t, next.Sign() > 0)

		s, err := c.TestInvoke(t, "pendingRefunds")
		require.NoError(t, err)
		require.Len(t, iteratorToArray(s.Pop().Value().(*storage.Iterator)), 1)
	})
}

func TestDepositSwap(t *testing.T) {
	e, c := newStashInvoker(t)
	acc := e.NewAccount(t)

	createStash(t, c, acc, "Roommates", 0)

	tokenIn := util.Uint160{0x01}
	tokenOut := util.Uint160{0x02}
	c.WithSigners(acc).InvokeFail(t, stashconst.ErrNotImplemented,
		"depositSwap", acc.ScriptHash(), int64(0), tokenIn, tokenOut, int64(10), int64(9))
}

func TestSetStoragePrice(t *testing.T) {
	e, c := newStashInvoker(t)
	acc := e.NewAccount(t)

	c.WithSigners(acc).InvokeFail(t, "only committee can set storage price",
		"setStoragePrice", int64(10))

	c.Invoke(t, stackitem.Null{}, "setStoragePrice", int64(10))
	c.Invoke(t, 10, "storagePrice")
}

func TestUpdate(t *testing.T) {
	e := newExecutor(t)
	ctr := compileStashContract(t, e)
	e.DeployContract(t, ctr, []interface{}{int64(testStoragePrice)})
	c := e.CommitteeInvoker(ctr.Hash)

	nefBytes, err := ctr.NEF.Bytes()
	require.NoError(t, err)
	manifestBytes, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	acc := e.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, "only committee can update contract",
		"update", nefBytes, manifestBytes, nil)

	// same code carries the same version, the update gate must reject it
	c.InvokeFail(t, common.ErrAlreadyUpdated, "update", nefBytes, manifestBytes, nil)
}
