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

package campaign

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/capaio/solidity-crowdfunding"
)

// Record returns the persisted form of the campaign.
func (c *Campaign) Record() crowdfund.CampaignRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.record()
}

func (c *Campaign) record() crowdfund.CampaignRecord {
	rec := crowdfund.CampaignRecord{
		Address:             c.address.Hex(),
		Manager:             c.manager.Hex(),
		MinimumContribution: c.minimumContribution.String(),
		Approvers:           hexList(c.approverList),
		Requests:            make([]crowdfund.RequestRecord, len(c.requests)),
	}
	for i, req := range c.requests {
		rec.Requests[i] = crowdfund.RequestRecord{
			Description: req.description,
			Value:       req.value.String(),
			Recipient:   req.recipient.Hex(),
			Complete:    req.complete,
			Approvals:   hexList(req.approvalList),
		}
	}
	return rec
}

// FromRecord restores a campaign from its persisted form.
func FromRecord(rec crowdfund.CampaignRecord, l crowdfund.Ledger, store crowdfund.StateStore) (*Campaign, error) {
	addr, err := crowdfund.ParseAddr("address", rec.Address)
	if err != nil {
		return nil, errors.WithMessage(err, "restoring campaign")
	}
	manager, err := crowdfund.ParseAddr("manager", rec.Manager)
	if err != nil {
		return nil, errors.WithMessagef(err, "restoring campaign %s", rec.Address)
	}
	minimum, err := crowdfund.ParseWei("minimumContribution", rec.MinimumContribution)
	if err != nil {
		return nil, errors.WithMessagef(err, "restoring campaign %s", rec.Address)
	}
	c, err := New(addr, manager, minimum, l, store)
	if err != nil {
		return nil, errors.WithMessagef(err, "restoring campaign %s", rec.Address)
	}

	for _, approverStr := range rec.Approvers {
		approver, err := crowdfund.ParseAddr("approver", approverStr)
		if err != nil {
			return nil, errors.WithMessagef(err, "restoring campaign %s", rec.Address)
		}
		if !c.approvers[approver] {
			c.addApprover(approver)
		}
	}
	for i, reqRec := range rec.Requests {
		req, err := requestFromRecord(reqRec)
		if err != nil {
			return nil, errors.WithMessagef(err, "restoring request %d of campaign %s", i, rec.Address)
		}
		c.requests = append(c.requests, req)
	}
	return c, nil
}

func requestFromRecord(rec crowdfund.RequestRecord) (*request, error) {
	value, err := crowdfund.ParseWei("value", rec.Value)
	if err != nil {
		return nil, err
	}
	recipient, err := crowdfund.ParseAddr("recipient", rec.Recipient)
	if err != nil {
		return nil, err
	}
	req := &request{
		description: rec.Description,
		value:       value,
		recipient:   recipient,
		complete:    rec.Complete,
		approvals:   make(map[common.Address]bool),
	}
	for _, approvalStr := range rec.Approvals {
		approval, err := crowdfund.ParseAddr("approval", approvalStr)
		if err != nil {
			return nil, err
		}
		if !req.approvals[approval] {
			req.addApproval(approval)
		}
	}
	return req, nil
}

func hexList(addrs []common.Address) []string {
	list := make([]string, len(addrs))
	for i := range addrs {
		list[i] = addrs[i].Hex()
	}
	return list
}
