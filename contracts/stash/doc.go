/*
Package stash contains implementation of Stash contract, a multi-tenant
ledger of pooled treasuries.

A stash is a named collection of per-token vaults, exclusively owned by the
account that created it. The owner can authorize other accounts to
contribute, which grants them the right to register vaults and move
liquidity in and out. Every mutating method is payable: the attached GAS
payment must cover the metered storage growth the call causes, priced per
byte. A short payment faults the whole transaction, an excess payment is
returned through the pending refund queue (see ProcessRefunds).

# Contract notifications

StashCreated notification. This notification is produced when a new stash
is registered.

	StashCreated:
	  - name: stashID
	    type: Integer
	  - name: owner
	    type: Hash160
	  - name: name
	    type: String

TokenAdded notification. This notification is produced when a zero-balance
vault is registered inside a stash.

	TokenAdded:
	  - name: stashID
	    type: Integer
	  - name: token
	    type: Hash160

LiquidityAdded and LiquidityRemoved notifications. These notifications are
produced when a vault balance changes.

	LiquidityAdded (LiquidityRemoved):
	  - name: stashID
	    type: Integer
	  - name: token
	    type: Hash160
	  - name: amount
	    type: Integer

ContributorAuthorized notification. This notification is produced when the
stash owner grants contribution rights to an account.

	ContributorAuthorized:
	  - name: stashID
	    type: Integer
	  - name: account
	    type: Hash160

StashRemoved notification. This notification is produced when a stash is
deleted together with its vaults and contributor grants.

	StashRemoved:
	  - name: stashID
	    type: Integer

RefundScheduled notification. This notification is produced when a payable
method receives more GAS than the metered cost of the call and puts the
difference on the refund queue.

	RefundScheduled:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: seq
	    type: Integer

RefundFailed notification. This notification is produced when a queued
refund transfer fails during ProcessRefunds. The entry is dropped, the
mutation that scheduled it stays committed.

	RefundFailed:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package stash

/*
Contract storage model.

# Summary
Current conventions:
 <id>: 8-byte big-endian stash identifier
 <account>: 20-byte script hash of a NEO3 account
 <token>: 20-byte script hash of a NEP-17 token contract
 <seq>: 8-byte big-endian refund sequence number

Key-value storage format:
 - 'x<id>' -> std.Serialize(Stash)
   descriptors of live stashes
 - 'v<id><token>' -> std.Serialize(Vault)
   per-token vault balances of the stash
 - 'c<id><account>' -> []byte{1}
   authorized contributor markers of the stash
 - 'o<account><id>' -> <id>
   stash-by-owner index, pruned on stash removal
 - 'r<seq>' -> std.Serialize(Refund)
   pending storage deposit refunds
 - 'id' -> int
   next stash id, strictly monotonic, not decremented on removal
 - 'q' -> int
   next refund sequence number, kept outside the 'r' keyspace
 - 'u' -> int
   total bytes of metered registry entries ('x', 'v', 'c', 'o' keys)
 - 'storagePrice' -> int
   price of one metered byte in GAS fractions

# Storage metering
Only registry entries are metered, the bookkeeping keys (counters, config,
refund queue) are free. Payable methods snapshot 'u' before mutating and
charge for its growth; operations that shrink the registry cost nothing.

# Stashes
For read performance, live stashes are additionally indexed by their owner
account. The index must never contain an id without a matching 'x' entry.
*/
