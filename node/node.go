// Copyright (c) 2023 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/capaio/solidity-crowdfunding
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package node implements the crowdfunding node. A node hosts one campaign factory on an
// account ledger and exposes the operations of the factory and its campaigns with the caller
// identity as an explicit parameter.
package node

import (
	"context"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/currency"
	"github.com/capaio/solidity-crowdfunding/factory"
	"github.com/capaio/solidity-crowdfunding/ledger"
	"github.com/capaio/solidity-crowdfunding/log"
	"github.com/capaio/solidity-crowdfunding/persistence"
	"github.com/capaio/solidity-crowdfunding/persistence/persistsqlite"
	"github.com/capaio/solidity-crowdfunding/persistence/persistyaml"
)

// Node implements crowdfund.NodeAPI.
type Node struct {
	log.Logger

	cfg crowdfund.NodeConfig

	store   crowdfund.StateStore
	ledger  *ledger.Ledger
	factory *factory.Factory
}

// New initializes the node for the given config.
//
// State found in the store is restored. If the store holds no accounts, the genesis accounts
// are derived from the mnemonic and funded with the configured balance.
func New(cfg crowdfund.NodeConfig) (*Node, error) {
	err := log.InitLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, crowdfund.NewErrInvalidConfig("loglevel/logfile", cfg.LogLevel+"/"+cfg.LogFile, err.Error())
	}
	factoryAddr, err := crowdfund.ParseAddr("factoryaddr", cfg.FactoryAddr)
	if err != nil {
		return nil, crowdfund.NewErrInvalidConfig("factoryaddr", cfg.FactoryAddr, "invalid factory address")
	}
	accountBalance, err := currency.NewParser(currency.ETH).Parse(cfg.AccountBalance)
	if err != nil {
		return nil, crowdfund.NewErrInvalidConfig("accountbalance", cfg.AccountBalance, err.Error())
	}
	if cfg.Accounts < 0 {
		return nil, crowdfund.NewErrInvalidConfig("accounts", strconv.Itoa(cfg.Accounts),
			"number of accounts should not be negative")
	}

	store, err := newStore(cfg.StoreType, cfg.StorePath)
	if err != nil {
		return nil, err
	}
	n, err := newNode(cfg, factoryAddr, accountBalance, store)
	if err != nil {
		if store != nil {
			store.Close() // nolint: errcheck, gosec
		}
		return nil, err
	}
	return n, nil
}

func newNode(cfg crowdfund.NodeConfig, factoryAddr common.Address, accountBalance *big.Int,
	store crowdfund.StateStore) (*Node, error) {
	ctx := context.Background()
	snap := crowdfund.Snapshot{}
	if store != nil {
		var err error
		if snap, err = store.Load(ctx); err != nil {
			return nil, errors.WithMessage(err, "loading stored state")
		}
	}

	l := ledger.New(store)
	if len(snap.Accounts) != 0 {
		if err := l.Restore(snap.Accounts); err != nil {
			return nil, err
		}
	} else if err := fundGenesisAccounts(ctx, l, cfg.Mnemonic, cfg.Accounts, accountBalance); err != nil {
		return nil, err
	}

	f := factory.New(factoryAddr, l, store)
	if err := f.Restore(snap); err != nil {
		return nil, err
	}

	return &Node{
		Logger:  log.NewLoggerWithField("node", factoryAddr.Hex()),
		cfg:     cfg,
		store:   store,
		ledger:  l,
		factory: f,
	}, nil
}

func newStore(storeType, storePath string) (crowdfund.StateStore, error) {
	switch storeType {
	case persistence.TypeMemory:
		return nil, nil
	case persistence.TypeYAML:
		s, err := persistyaml.New(storePath)
		if err != nil {
			return nil, errors.WithMessage(err, "initializing yaml store")
		}
		return s, nil
	case persistence.TypeSQLite:
		s, err := persistsqlite.Open(storePath)
		if err != nil {
			return nil, errors.WithMessage(err, "initializing sqlite store")
		}
		return s, nil
	default:
		return nil, crowdfund.NewErrInvalidConfig("storetype", storeType,
			"unsupported store type, use memory, yaml or sqlite")
	}
}

func fundGenesisAccounts(ctx context.Context, l *ledger.Ledger, mnemonic string, n int, balance *big.Int) error {
	if n == 0 {
		return nil
	}
	if mnemonic == "" {
		return crowdfund.NewErrInvalidConfig("mnemonic", "", "mnemonic is required for funding accounts")
	}
	accs, err := ledger.NewGenesisAccounts(mnemonic, n)
	if err != nil {
		return crowdfund.NewErrInvalidConfig("mnemonic", "***", err.Error())
	}
	for _, acc := range accs {
		if err := l.Fund(ctx, acc, balance); err != nil {
			return err
		}
	}
	return nil
}

// Time returns the time as per the node's clock in unix format.
func (n *Node) Time() int64 {
	n.Logger.Debug("Received request: node.Time")
	return time.Now().UTC().Unix()
}

// GetConfig returns the configuration the node was started with.
func (n *Node) GetConfig() crowdfund.NodeConfig {
	n.Logger.Debug("Received request: node.GetConfig")
	return n.cfg
}

// CreateCampaign creates a campaign managed by the caller and returns its address.
func (n *Node) CreateCampaign(ctx context.Context, caller common.Address, minimumContribution *big.Int) (
	common.Address, error) {
	n.Logger.Debug("Received request: node.CreateCampaign")
	c, err := n.factory.CreateCampaign(ctx, caller, minimumContribution)
	if err != nil {
		return common.Address{}, err
	}
	return c.Address(), nil
}

// GetDeployedCampaigns returns the addresses of all campaigns in creation order.
func (n *Node) GetDeployedCampaigns() []common.Address {
	n.Logger.Debug("Received request: node.GetDeployedCampaigns")
	return n.factory.DeployedCampaigns()
}

// GetSummary returns the summary of the campaign.
func (n *Node) GetSummary(campaignAddr common.Address) (crowdfund.CampaignSummary, error) {
	n.Logger.Debug("Received request: node.GetSummary")
	c, err := n.factory.Campaign(campaignAddr)
	if err != nil {
		n.Logger.Error(err)
		return crowdfund.CampaignSummary{}, err
	}
	return c.Summary(), nil
}

// Contribute transfers value from the caller to the campaign.
func (n *Node) Contribute(ctx context.Context, campaignAddr, caller common.Address, value *big.Int) error {
	n.Logger.Debug("Received request: node.Contribute")
	c, err := n.factory.Campaign(campaignAddr)
	if err != nil {
		n.Logger.Error(err)
		return err
	}
	return c.Contribute(ctx, caller, value)
}

// IsApprover reports whether addr is an approver of the campaign.
func (n *Node) IsApprover(campaignAddr, addr common.Address) (bool, error) {
	n.Logger.Debug("Received request: node.IsApprover")
	c, err := n.factory.Campaign(campaignAddr)
	if err != nil {
		n.Logger.Error(err)
		return false, err
	}
	return c.IsApprover(addr), nil
}

// CreateRequest creates a spending request in the campaign and returns its index.
func (n *Node) CreateRequest(ctx context.Context, campaignAddr, caller common.Address, description string,
	value *big.Int, recipient common.Address) (int, error) {
	n.Logger.Debug("Received request: node.CreateRequest")
	c, err := n.factory.Campaign(campaignAddr)
	if err != nil {
		n.Logger.Error(err)
		return 0, err
	}
	return c.CreateRequest(ctx, caller, description, value, recipient)
}

// GetRequest returns the request at index in the campaign.
func (n *Node) GetRequest(campaignAddr common.Address, index int) (crowdfund.Request, error) {
	n.Logger.Debug("Received request: node.GetRequest")
	c, err := n.factory.Campaign(campaignAddr)
	if err != nil {
		n.Logger.Error(err)
		return crowdfund.Request{}, err
	}
	req, err := c.Request(index)
	if err != nil {
		n.Logger.Error(err)
	}
	return req, err
}

// GetRequestsCount returns the number of requests in the campaign.
func (n *Node) GetRequestsCount(campaignAddr common.Address) (int, error) {
	n.Logger.Debug("Received request: node.GetRequestsCount")
	c, err := n.factory.Campaign(campaignAddr)
	if err != nil {
		n.Logger.Error(err)
		return 0, err
	}
	return c.RequestsCount(), nil
}

// ApproveRequest records the approval of the caller for the request at index.
func (n *Node) ApproveRequest(ctx context.Context, campaignAddr, caller common.Address, index int) error {
	n.Logger.Debug("Received request: node.ApproveRequest")
	c, err := n.factory.Campaign(campaignAddr)
	if err != nil {
		n.Logger.Error(err)
		return err
	}
	return c.ApproveRequest(ctx, caller, index)
}

// FinalizeRequest transfers the value of the request at index to its recipient.
func (n *Node) FinalizeRequest(ctx context.Context, campaignAddr, caller common.Address, index int) error {
	n.Logger.Debug("Received request: node.FinalizeRequest")
	c, err := n.factory.Campaign(campaignAddr)
	if err != nil {
		n.Logger.Error(err)
		return err
	}
	return c.FinalizeRequest(ctx, caller, index)
}

// GetAccounts returns the addresses of all ledger accounts.
func (n *Node) GetAccounts() []common.Address {
	n.Logger.Debug("Received request: node.GetAccounts")
	return n.ledger.Accounts()
}

// GetBalance returns the ledger balance of addr. Campaigns hold their funds at their address.
func (n *Node) GetBalance(addr common.Address) *big.Int {
	n.Logger.Debug("Received request: node.GetBalance")
	return n.ledger.Balance(addr)
}

// Close closes the state store of the node.
func (n *Node) Close() error {
	n.Logger.Debug("Received request: node.Close")
	if n.store == nil {
		return nil
	}
	return errors.WithMessage(n.store.Close(), "closing store")
}
