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

// Package campaign implements a crowdfunding campaign: the contribution ledger, the set of
// approvers and the spending request workflow.
//
// A request is created pending by the manager, collects at most one approval from each
// approver and is finalized by the manager once more than half of the approvers approved it
// and the campaign holds enough funds. Finalizing transfers the value to the recipient and is
// terminal. A request that never reaches the majority stays pending.
//
// Each operation runs with exclusive access to the campaign and either commits completely or
// leaves the campaign, the ledger and the store unchanged.
package campaign

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/log"
)

// Roles that are required for the restricted operations.
const (
	RoleManager  = "manager"
	RoleApprover = "approver"
)

type (
	// Campaign holds the state of one campaign. Its funds are held in the ledger under
	// the campaign address.
	Campaign struct {
		log.Logger

		address             common.Address
		manager             common.Address
		minimumContribution *big.Int

		ledger crowdfund.Ledger
		store  crowdfund.StateStore

		mu        sync.RWMutex
		approvers map[common.Address]bool
		// approverList holds the approvers in the order they joined; it is only appended to.
		approverList []common.Address
		requests     []*request
	}

	request struct {
		description string
		value       *big.Int
		recipient   common.Address
		complete    bool

		approvals    map[common.Address]bool
		approvalList []common.Address
	}
)

// New returns a campaign managed by manager, holding its funds at addr in the ledger.
// store may be nil, in which case nothing is persisted.
//
// The minimum contribution must be positive.
func New(addr, manager common.Address, minimumContribution *big.Int, l crowdfund.Ledger,
	store crowdfund.StateStore) (*Campaign, error) {
	if minimumContribution == nil || minimumContribution.Sign() <= 0 {
		return nil, crowdfund.NewErrInvalidArgument("minimumContribution", amountString(minimumContribution),
			"positive amount in wei", "invalid minimum contribution")
	}
	return &Campaign{
		Logger:              log.NewLoggerWithField("campaign", addr.Hex()),
		address:             addr,
		manager:             manager,
		minimumContribution: new(big.Int).Set(minimumContribution),
		ledger:              l,
		store:               store,
		approvers:           make(map[common.Address]bool),
	}, nil
}

// Contribute transfers value from the caller to the campaign and adds the caller to the
// approvers. Contributing again does not change the approvers. The campaign and the new
// balances are persisted in one store operation.
//
// The contribution fails if value is less than the minimum contribution or if the caller
// cannot pay it.
func (c *Campaign) Contribute(ctx context.Context, caller common.Address, value *big.Int) error {
	c.Logger.Debug("Received request: campaign.Contribute")
	c.mu.Lock()
	defer c.mu.Unlock()

	if value == nil || value.Cmp(c.minimumContribution) < 0 {
		err := crowdfund.NewErrInsufficientContribution(c.minimumContribution.String(), amountString(value))
		c.Logger.Error(err)
		return err
	}
	newApprover := !c.approvers[caller]
	if newApprover {
		c.addApprover(caller)
	}
	if err := c.ledger.TransferCommit(ctx, caller, c.address, value, c.commitFunc()); err != nil {
		c.Logger.Error(err)
		if newApprover {
			c.removeLastApprover()
		}
		return err
	}
	return nil
}

// CreateRequest appends a pending request to transfer value to the recipient and returns
// its index. Only the manager can create requests. The campaign balance is not checked
// until the request is finalized.
func (c *Campaign) CreateRequest(ctx context.Context, caller common.Address, description string, value *big.Int,
	recipient common.Address) (int, error) {
	c.Logger.Debug("Received request: campaign.CreateRequest")
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.manager {
		err := crowdfund.NewErrUnauthorized(caller.Hex(), RoleManager)
		c.Logger.Error(err)
		return 0, err
	}
	if value == nil || value.Sign() < 0 {
		err := crowdfund.NewErrInvalidArgument("value", amountString(value), "non-negative amount in wei",
			"invalid request value")
		c.Logger.Error(err)
		return 0, err
	}

	c.requests = append(c.requests, &request{
		description: description,
		value:       new(big.Int).Set(value),
		recipient:   recipient,
		approvals:   make(map[common.Address]bool),
	})
	if err := c.persist(ctx); err != nil {
		c.requests = c.requests[:len(c.requests)-1]
		return 0, err
	}
	return len(c.requests) - 1, nil
}

// ApproveRequest records the approval of the caller for the request at index.
// Only approvers can approve and each of them only once per request.
func (c *Campaign) ApproveRequest(ctx context.Context, caller common.Address, index int) error {
	c.Logger.Debug("Received request: campaign.ApproveRequest")
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.approvers[caller] {
		err := crowdfund.NewErrUnauthorized(caller.Hex(), RoleApprover)
		c.Logger.Error(err)
		return err
	}
	req, err := c.request(index)
	if err != nil {
		c.Logger.Error(err)
		return err
	}
	if req.approvals[caller] {
		err := crowdfund.NewErrDuplicateApproval(index, caller.Hex())
		c.Logger.Error(err)
		return err
	}

	req.addApproval(caller)
	if err := c.persist(ctx); err != nil {
		req.removeLastApproval()
		return err
	}
	return nil
}

// FinalizeRequest transfers the value of the request at index to its recipient and marks
// the request complete. Only the manager can finalize, and only once more than half of the
// approvers approved the request and the campaign balance covers its value.
//
// The request is marked complete before the transfer is issued, and the completed request is
// persisted together with the new balances in one store operation. If the transfer fails,
// the request is reverted to pending and nothing is persisted.
func (c *Campaign) FinalizeRequest(ctx context.Context, caller common.Address, index int) error {
	c.Logger.Debug("Received request: campaign.FinalizeRequest")
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.manager {
		err := crowdfund.NewErrUnauthorized(caller.Hex(), RoleManager)
		c.Logger.Error(err)
		return err
	}
	req, err := c.request(index)
	if err != nil {
		c.Logger.Error(err)
		return err
	}
	if req.complete {
		err := crowdfund.NewErrAlreadyFinalized(index)
		c.Logger.Error(err)
		return err
	}
	if len(req.approvalList)*2 <= len(c.approverList) {
		err := crowdfund.NewErrMajorityNotReached(index, len(req.approvalList), len(c.approverList))
		c.Logger.Error(err)
		return err
	}
	balance := c.ledger.Balance(c.address)
	if balance.Cmp(req.value) < 0 {
		err := crowdfund.NewErrInsufficientFunds(index, balance.String(), req.value.String())
		c.Logger.Error(err)
		return err
	}

	req.complete = true
	if req.value.Sign() > 0 {
		err = c.ledger.TransferCommit(ctx, c.address, req.recipient, req.value, c.commitFunc())
	} else {
		err = c.persist(ctx)
	}
	if err != nil {
		c.Logger.Error(err)
		req.complete = false
		return err
	}
	c.Logger.Infof("Finalized request %d: transferred %s wei to %s", index, req.value, req.recipient.Hex())
	return nil
}

// Address returns the address at which the campaign holds its funds.
func (c *Campaign) Address() common.Address {
	return c.address
}

// Manager returns the identity that created the campaign.
func (c *Campaign) Manager() common.Address {
	return c.manager
}

// MinimumContribution returns the minimum value of a contribution in wei.
func (c *Campaign) MinimumContribution() *big.Int {
	return new(big.Int).Set(c.minimumContribution)
}

// IsApprover reports whether addr has contributed at least the minimum contribution.
func (c *Campaign) IsApprover(addr common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.approvers[addr]
}

// ApproversCount returns the number of distinct approvers.
func (c *Campaign) ApproversCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.approverList)
}

// RequestsCount returns the number of requests created so far.
func (c *Campaign) RequestsCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.requests)
}

// Request returns a copy of the request at index.
func (c *Campaign) Request(index int) (crowdfund.Request, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	req, err := c.request(index)
	if err != nil {
		return crowdfund.Request{}, err
	}
	return crowdfund.Request{
		Description:   req.description,
		Value:         new(big.Int).Set(req.value),
		Recipient:     req.recipient,
		Complete:      req.complete,
		ApprovalCount: len(req.approvalList),
	}, nil
}

// HasApproved reports whether addr has approved the request at index.
func (c *Campaign) HasApproved(index int, addr common.Address) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	req, err := c.request(index)
	if err != nil {
		return false, err
	}
	return req.approvals[addr], nil
}

// Balance returns the funds held by the campaign.
func (c *Campaign) Balance() *big.Int {
	return c.ledger.Balance(c.address)
}

// Summary returns the summary of the campaign.
func (c *Campaign) Summary() crowdfund.CampaignSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return crowdfund.CampaignSummary{
		Address:             c.address,
		Manager:             c.manager,
		MinimumContribution: new(big.Int).Set(c.minimumContribution),
		Balance:             c.ledger.Balance(c.address),
		RequestsCount:       len(c.requests),
		ApproversCount:      len(c.approverList),
	}
}

func (c *Campaign) request(index int) (*request, error) {
	if index < 0 || index >= len(c.requests) {
		return nil, crowdfund.NewErrOutOfRange(crowdfund.ResTypeRequest, index, len(c.requests))
	}
	return c.requests[index], nil
}

func (c *Campaign) addApprover(addr common.Address) {
	c.approvers[addr] = true
	c.approverList = append(c.approverList, addr)
}

func (c *Campaign) removeLastApprover() {
	last := c.approverList[len(c.approverList)-1]
	delete(c.approvers, last)
	c.approverList = c.approverList[:len(c.approverList)-1]
}

func (r *request) addApproval(addr common.Address) {
	r.approvals[addr] = true
	r.approvalList = append(r.approvalList, addr)
}

func (r *request) removeLastApproval() {
	last := r.approvalList[len(r.approvalList)-1]
	delete(r.approvals, last)
	r.approvalList = r.approvalList[:len(r.approvalList)-1]
}

// persist writes the current state to the store. It must be called with the lock held.
func (c *Campaign) persist(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.PutCampaign(ctx, c.record()); err != nil {
		c.Logger.Error(err)
		return crowdfund.NewErrUnknownInternal(errors.WithMessage(err, "persisting campaign"))
	}
	return nil
}

// commitFunc returns the function that persists the campaign together with the account
// records of a transfer. It must be called with the lock held.
func (c *Campaign) commitFunc() crowdfund.CommitFunc {
	if c.store == nil {
		return nil
	}
	return func(ctx context.Context, accs []crowdfund.AccountRecord) error {
		if err := c.store.PutCampaignAccounts(ctx, c.record(), accs...); err != nil {
			return crowdfund.NewErrUnknownInternal(errors.WithMessage(err, "persisting campaign and accounts"))
		}
		return nil
	}
}

func amountString(amount *big.Int) string {
	if amount == nil {
		return "<nil>"
	}
	return amount.String()
}
