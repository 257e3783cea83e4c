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

// Package factory implements the campaign factory: the registry that creates campaigns and
// keeps the list of deployed campaign addresses in creation order.
package factory

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/campaign"
	"github.com/capaio/solidity-crowdfunding/log"
)

// Factory creates campaigns and keeps track of them.
//
// Campaign addresses are derived from the factory address and the number of campaigns deployed
// before, the same way contract addresses are derived from the creator and its nonce.
type Factory struct {
	log.Logger

	address common.Address
	ledger  crowdfund.Ledger
	store   crowdfund.StateStore

	mu        sync.RWMutex
	deployed  []common.Address
	campaigns map[common.Address]*campaign.Campaign
}

// New returns a factory without any deployed campaigns. store may be nil, in which case
// nothing is persisted.
func New(addr common.Address, l crowdfund.Ledger, store crowdfund.StateStore) *Factory {
	return &Factory{
		Logger:    log.NewLoggerWithField("factory", addr.Hex()),
		address:   addr,
		ledger:    l,
		store:     store,
		campaigns: make(map[common.Address]*campaign.Campaign),
	}
}

// Address returns the address of the factory.
func (f *Factory) Address() common.Address {
	return f.address
}

// CreateCampaign creates a campaign managed by the caller and registers it as deployed.
func (f *Factory) CreateCampaign(ctx context.Context, caller common.Address, minimumContribution *big.Int) (
	*campaign.Campaign, error) {
	f.Logger.Debug("Received request: factory.CreateCampaign")
	f.mu.Lock()
	defer f.mu.Unlock()

	addr := crypto.CreateAddress(f.address, uint64(len(f.deployed)))
	c, err := campaign.New(addr, caller, minimumContribution, f.ledger, f.store)
	if err != nil {
		f.Logger.Error(err)
		return nil, err
	}

	if err := f.persistCampaign(ctx, c); err != nil {
		return nil, err
	}
	f.deployed = append(f.deployed, addr)
	if err := f.persist(ctx); err != nil {
		f.deployed = f.deployed[:len(f.deployed)-1]
		return nil, err
	}
	f.campaigns[addr] = c
	f.Logger.Infof("Deployed campaign %s managed by %s", addr.Hex(), caller.Hex())
	return c, nil
}

// DeployedCampaigns returns the addresses of all campaigns in creation order.
func (f *Factory) DeployedCampaigns() []common.Address {
	f.mu.RLock()
	defer f.mu.RUnlock()
	deployed := make([]common.Address, len(f.deployed))
	copy(deployed, f.deployed)
	return deployed
}

// Campaign returns the campaign deployed at addr.
func (f *Factory) Campaign(addr common.Address) (*campaign.Campaign, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.campaigns[addr]
	if !ok {
		return nil, crowdfund.NewErrResourceNotFound(crowdfund.ResTypeCampaign, addr.Hex(),
			"no campaign deployed at this address")
	}
	return c, nil
}

// CampaignAt returns the campaign created at the given position.
func (f *Factory) CampaignAt(index int) (*campaign.Campaign, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if index < 0 || index >= len(f.deployed) {
		return nil, crowdfund.NewErrOutOfRange(crowdfund.ResTypeCampaign, index, len(f.deployed))
	}
	return f.campaigns[f.deployed[index]], nil
}

// Restore rebuilds the registry and the deployed campaigns from a snapshot. A snapshot without
// a factory record leaves the factory empty. Campaign records that are not listed as deployed
// are ignored.
func (f *Factory) Restore(snap crowdfund.Snapshot) error {
	if snap.Factory == nil {
		return nil
	}
	if addr, err := crowdfund.ParseAddr("factory", snap.Factory.Address); err != nil {
		return errors.WithMessage(err, "restoring factory")
	} else if addr != f.address {
		return crowdfund.NewErrInvalidConfig("factoryaddr", f.address.Hex(),
			"stored state belongs to factory "+addr.Hex())
	}

	records := make(map[common.Address]crowdfund.CampaignRecord, len(snap.Campaigns))
	for _, rec := range snap.Campaigns {
		if common.IsHexAddress(rec.Address) {
			records[common.HexToAddress(rec.Address)] = rec
		}
	}

	deployed := make([]common.Address, 0, len(snap.Factory.DeployedCampaigns))
	campaigns := make(map[common.Address]*campaign.Campaign, len(snap.Factory.DeployedCampaigns))
	for _, addrStr := range snap.Factory.DeployedCampaigns {
		addr, err := crowdfund.ParseAddr("deployedCampaign", addrStr)
		if err != nil {
			return errors.WithMessage(err, "restoring factory")
		}
		rec, ok := records[addr]
		if !ok {
			return errors.Errorf("restoring factory: no record for deployed campaign %s", addr.Hex())
		}
		c, err := campaign.FromRecord(rec, f.ledger, f.store)
		if err != nil {
			return err
		}
		deployed = append(deployed, addr)
		campaigns[addr] = c
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.deployed = deployed
	f.campaigns = campaigns
	f.Logger.Infof("Restored %d campaigns", len(deployed))
	return nil
}

// Record returns the persisted form of the factory.
func (f *Factory) Record() crowdfund.FactoryRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.record()
}

func (f *Factory) record() crowdfund.FactoryRecord {
	rec := crowdfund.FactoryRecord{
		Address:           f.address.Hex(),
		DeployedCampaigns: make([]string, len(f.deployed)),
	}
	for i := range f.deployed {
		rec.DeployedCampaigns[i] = f.deployed[i].Hex()
	}
	return rec
}

func (f *Factory) persistCampaign(ctx context.Context, c *campaign.Campaign) error {
	if f.store == nil {
		return nil
	}
	if err := f.store.PutCampaign(ctx, c.Record()); err != nil {
		f.Logger.Error(err)
		return crowdfund.NewErrUnknownInternal(errors.WithMessage(err, "persisting campaign"))
	}
	return nil
}

// persist writes the factory record to the store. It must be called with the lock held.
func (f *Factory) persist(ctx context.Context) error {
	if f.store == nil {
		return nil
	}
	if err := f.store.PutFactory(ctx, f.record()); err != nil {
		f.Logger.Error(err)
		return crowdfund.NewErrUnknownInternal(errors.WithMessage(err, "persisting factory"))
	}
	return nil
}
