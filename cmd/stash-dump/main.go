// Command stash-dump connects to a Neo RPC server and prints the full state
// of an on-chain Stash contract: summary counters and every stash, vault,
// contributor grant and pending refund found in the contract storage.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"

	"github.com/stashfi/stash-contract/rpc/stash"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractHash := flag.String("contract", "", "Stash contract hash in LE form (with or without 0x prefix)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractHash == "":
		log.Fatal("missing Stash contract hash")
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(*contractHash, "0x"))
	if err != nil {
		log.Fatal(fmt.Errorf("decode contract hash: %w", err))
	}

	err = _dump(*neoRPCEndpoint, h)
	if err != nil {
		log.Fatal(err)
	}
}

func _dump(neoBlockchainRPCEndpoint string, contract util.Uint160) error {
	b, err := newRemoteBlockchain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	reader := stash.NewReader(invoker.New(b.rpc, nil), contract)

	version, err := reader.Version()
	if err != nil {
		return fmt.Errorf("read contract version: %w", err)
	}
	totalStashes, err := reader.TotalStashes()
	if err != nil {
		return fmt.Errorf("read total number of stashes: %w", err)
	}
	storagePrice, err := reader.StoragePrice()
	if err != nil {
		return fmt.Errorf("read storage price: %w", err)
	}
	storageUsage, err := reader.StorageUsage()
	if err != nil {
		return fmt.Errorf("read storage usage: %w", err)
	}

	log.Printf("Stash contract %s at block #%d\n", contract.StringLE(), b.currentBlock)
	log.Printf("version: %s, stashes: %s, storage price: %s, metered bytes: %s\n",
		version, totalStashes, storagePrice, storageUsage)

	return b.iterateContractStorage(contract, printStorageRecord)
}

// Storage key prefixes of the Stash contract, see contracts/stash documentation.
const (
	stashKeyPrefix       = 'x'
	vaultKeyPrefix       = 'v'
	contributorKeyPrefix = 'c'
	ownerKeyPrefix       = 'o'
	refundKeyPrefix      = 'r'

	stashIDSize = 8
)

func printStorageRecord(key, value []byte) error {
	if len(key) == 0 {
		return nil
	}

	switch key[0] {
	case stashKeyPrefix:
		if len(key) != 1+stashIDSize {
			break
		}

		var s stash.StashStash
		if err := decodeStruct(value, &s); err != nil {
			return fmt.Errorf("decode stash %d: %w", storedID(key[1:]), err)
		}

		log.Printf("stash %s: name %q, owner %s\n", s.ID, s.Name, address.Uint160ToString(s.Owner))
	case vaultKeyPrefix:
		if len(key) != 1+stashIDSize+util.Uint160Size {
			break
		}

		var v stash.StashVault
		if err := decodeStruct(value, &v); err != nil {
			return fmt.Errorf("decode vault of stash %d: %w", storedID(key[1:]), err)
		}

		log.Printf("stash %d: vault %s, balance %s\n", storedID(key[1:]), v.Token.StringLE(), v.Balance)
	case contributorKeyPrefix:
		if len(key) != 1+stashIDSize+util.Uint160Size {
			break
		}

		account, err := util.Uint160DecodeBytesBE(key[1+stashIDSize:])
		if err != nil {
			return fmt.Errorf("decode contributor of stash %d: %w", storedID(key[1:]), err)
		}

		log.Printf("stash %d: contributor %s\n", storedID(key[1:]), address.Uint160ToString(account))
	case refundKeyPrefix:
		if len(key) != 1+stashIDSize {
			break
		}

		var r stash.StashRefund
		if err := decodeStruct(value, &r); err != nil {
			return fmt.Errorf("decode refund %d: %w", storedID(key[1:]), err)
		}

		log.Printf("refund %d: %s GAS fractions to %s\n",
			storedID(key[1:]), r.Amount, address.Uint160ToString(r.To))
	case ownerKeyPrefix:
		// covered by the stash records themselves
	}

	return nil
}

// storedID decodes fixed-width big-endian stash id used in storage keys.
func storedID(b []byte) uint64 {
	if len(b) < stashIDSize {
		return 0
	}
	return binary.BigEndian.Uint64(b[:stashIDSize])
}

// decodeStruct deserializes a stack item persisted by the contract into one
// of the rpc/stash structures.
func decodeStruct(value []byte, res interface{ FromStackItem(stackitem.Item) error }) error {
	item, err := stackitem.Deserialize(value)
	if err != nil {
		return fmt.Errorf("deserialize stack item: %w", err)
	}
	return res.FromStackItem(item)
}
