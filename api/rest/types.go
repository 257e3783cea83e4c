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

package rest

import (
	"github.com/capaio/solidity-crowdfunding"
)

// Wire types of the REST API. Addresses are hex strings with 0x prefix and amounts are
// decimal strings in wei.
type (
	CreateCampaignReq struct {
		Caller              string `json:"caller"`
		MinimumContribution string `json:"minimumContribution"`
	}

	CreateCampaignResp struct {
		Address string `json:"address"`
	}

	DeployedCampaignsResp struct {
		Campaigns []string `json:"campaigns"`
	}

	SummaryResp struct {
		Address             string `json:"address"`
		Manager             string `json:"manager"`
		MinimumContribution string `json:"minimumContribution"`
		Balance             string `json:"balance"`
		RequestsCount       int    `json:"requestsCount"`
		ApproversCount      int    `json:"approversCount"`
	}

	ContributeReq struct {
		Caller string `json:"caller"`
		Value  string `json:"value"`
	}

	IsApproverResp struct {
		IsApprover bool `json:"isApprover"`
	}

	CreateRequestReq struct {
		Caller      string `json:"caller"`
		Description string `json:"description"`
		Value       string `json:"value"`
		Recipient   string `json:"recipient"`
	}

	CreateRequestResp struct {
		Index int `json:"index"`
	}

	RequestsCountResp struct {
		Count int `json:"count"`
	}

	RequestResp struct {
		Description   string `json:"description"`
		Value         string `json:"value"`
		Recipient     string `json:"recipient"`
		Complete      bool   `json:"complete"`
		ApprovalCount int    `json:"approvalCount"`
	}

	// CallerReq is the body of approve and finalize requests.
	CallerReq struct {
		Caller string `json:"caller"`
	}

	AccountsResp struct {
		Accounts []string `json:"accounts"`
	}

	BalanceResp struct {
		Address string `json:"address"`
		Balance string `json:"balance"`
	}

	TimeResp struct {
		Time int64 `json:"time"`
	}

	// ConfigResp holds the node configuration without the mnemonic.
	ConfigResp struct {
		LogLevel       string `json:"logLevel"`
		RESTAddr       string `json:"restAddr"`
		StoreType      string `json:"storeType"`
		FactoryAddr    string `json:"factoryAddr"`
		Accounts       int    `json:"accounts"`
		AccountBalance string `json:"accountBalance"`
	}

	// ErrorResp is the body of every failed request.
	ErrorResp struct {
		Category string      `json:"category"`
		Code     int         `json:"code"`
		Message  string      `json:"message"`
		AddInfo  interface{} `json:"addInfo,omitempty"`
	}
)

func toSummaryResp(s crowdfund.CampaignSummary) SummaryResp {
	return SummaryResp{
		Address:             s.Address.Hex(),
		Manager:             s.Manager.Hex(),
		MinimumContribution: s.MinimumContribution.String(),
		Balance:             s.Balance.String(),
		RequestsCount:       s.RequestsCount,
		ApproversCount:      s.ApproversCount,
	}
}

func toRequestResp(r crowdfund.Request) RequestResp {
	return RequestResp{
		Description:   r.Description,
		Value:         r.Value.String(),
		Recipient:     r.Recipient.Hex(),
		Complete:      r.Complete,
		ApprovalCount: r.ApprovalCount,
	}
}

func toConfigResp(cfg crowdfund.NodeConfig) ConfigResp {
	return ConfigResp{
		LogLevel:       cfg.LogLevel,
		RESTAddr:       cfg.RESTAddr,
		StoreType:      cfg.StoreType,
		FactoryAddr:    cfg.FactoryAddr,
		Accounts:       cfg.Accounts,
		AccountBalance: cfg.AccountBalance,
	}
}
