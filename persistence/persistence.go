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

// Package persistence holds the helpers shared by the state store implementations in its
// sub-packages: persistyaml (single YAML file) and persistsqlite (SQLite database).
package persistence

import (
	"github.com/capaio/solidity-crowdfunding"
)

// Store types that can be selected in the node config.
const (
	TypeMemory = "memory"
	TypeYAML   = "yaml"
	TypeSQLite = "sqlite"
)

// PutFactory replaces the factory in the snapshot.
func PutFactory(snap *crowdfund.Snapshot, rec crowdfund.FactoryRecord) {
	rec.DeployedCampaigns = copyStrings(rec.DeployedCampaigns)
	snap.Factory = &rec
}

// PutCampaign replaces the campaign with the same address in the snapshot or appends it.
func PutCampaign(snap *crowdfund.Snapshot, rec crowdfund.CampaignRecord) {
	rec = copyCampaign(rec)
	for i := range snap.Campaigns {
		if snap.Campaigns[i].Address == rec.Address {
			snap.Campaigns[i] = rec
			return
		}
	}
	snap.Campaigns = append(snap.Campaigns, rec)
}

// PutAccounts replaces the accounts with the same addresses in the snapshot or appends them.
func PutAccounts(snap *crowdfund.Snapshot, recs ...crowdfund.AccountRecord) {
	for _, rec := range recs {
		found := false
		for i := range snap.Accounts {
			if snap.Accounts[i].Address == rec.Address {
				snap.Accounts[i] = rec
				found = true
				break
			}
		}
		if !found {
			snap.Accounts = append(snap.Accounts, rec)
		}
	}
}

// Copy returns a deep copy of the snapshot.
func Copy(snap crowdfund.Snapshot) crowdfund.Snapshot {
	var c crowdfund.Snapshot
	if snap.Factory != nil {
		PutFactory(&c, *snap.Factory)
	}
	for i := range snap.Campaigns {
		c.Campaigns = append(c.Campaigns, copyCampaign(snap.Campaigns[i]))
	}
	c.Accounts = append(c.Accounts, snap.Accounts...)
	return c
}

func copyCampaign(rec crowdfund.CampaignRecord) crowdfund.CampaignRecord {
	rec.Approvers = copyStrings(rec.Approvers)
	if rec.Requests == nil {
		return rec
	}
	reqs := make([]crowdfund.RequestRecord, len(rec.Requests))
	for i, req := range rec.Requests {
		req.Approvals = copyStrings(req.Approvals)
		reqs[i] = req
	}
	rec.Requests = reqs
	return rec
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
