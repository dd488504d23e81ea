// Package deploy provides Stash contract deployment routine.
package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"

	"github.com/stashfi/stash-contract/common"
	"github.com/stashfi/stash-contract/rpc/stash"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the Stash contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups parameters of the Stash contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	// Compiled contract executable and manifest.
	NEF      nef.File
	Manifest manifest.Manifest

	// Initial storage price in GAS fractions per byte. Zero means the
	// contract default.
	StoragePrice int64
}

// Deploy deploys the Stash contract on the given chain, or updates the
// on-chain instance when one is already present and carries an older version.
// Returns the address of the on-chain contract.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	ctrAddress := state.CreateContractHash(localActor.Sender(), prm.NEF.Checksum, prm.Manifest.Name)

	_, err = prm.Blockchain.GetContractStateByHash(ctrAddress)
	if err != nil {
		if !strings.Contains(err.Error(), "Unknown contract") {
			return util.Uint160{}, fmt.Errorf("get contract state: %w", err)
		}

		prm.Logger.Info("contract is missing on the chain, deploying...",
			zap.Stringer("address", ctrAddress))

		var deployArgs any
		if prm.StoragePrice > 0 {
			deployArgs = []any{prm.StoragePrice}
		}

		txHash, vub, err := management.New(localActor).Deploy(&prm.NEF, &prm.Manifest, deployArgs)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("send contract deployment transaction: %w", err)
		}

		_, err = localActor.Wait(txHash, vub, nil)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("wait for contract deployment: %w", err)
		}

		prm.Logger.Info("contract successfully deployed", zap.Stringer("address", ctrAddress))
		return ctrAddress, nil
	}

	onChainVersion, err := stash.NewReader(invoker.New(prm.Blockchain, nil), ctrAddress).Version()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("read on-chain contract version: %w", err)
	}

	if onChainVersion.Cmp(big.NewInt(common.Version)) >= 0 {
		prm.Logger.Info("on-chain contract is up-to-date, skip update",
			zap.Stringer("address", ctrAddress), zap.Stringer("version", onChainVersion))
		return ctrAddress, nil
	}

	prm.Logger.Info("contract is outdated on the chain, updating...",
		zap.Stringer("address", ctrAddress), zap.Stringer("version", onChainVersion))

	neb, err := prm.NEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode NEF: %w", err)
	}

	jManifest, err := json.Marshal(prm.Manifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode manifest: %w", err)
	}

	txHash, vub, err := stash.New(localActor, ctrAddress).Update(neb, jManifest, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send contract update transaction: %w", err)
	}

	_, err = localActor.Wait(txHash, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for contract update: %w", err)
	}

	prm.Logger.Info("contract successfully updated", zap.Stringer("address", ctrAddress))
	return ctrAddress, nil
}
