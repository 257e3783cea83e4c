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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/capaio/solidity-crowdfunding"
)

// DefaultClientTimeout is the timeout for each request made by the client.
const DefaultClientTimeout = 10 * time.Second

// Client calls the API of a node served by ListenAndServe.
//
// Failed requests return the API error sent by the node, so the error code can be
// retrieved with crowdfund.CodeOf.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the node serving its API at addr. addr is either a
// host:port pair or a URL with http(s) scheme.
func NewClient(addr string) *Client {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL:    strings.TrimSuffix(addr, "/") + BasePath,
		httpClient: &http.Client{Timeout: DefaultClientTimeout},
	}
}

// Time returns the time as per the node's clock in unix format.
func (c *Client) Time(ctx context.Context) (int64, error) {
	var resp TimeResp
	err := c.do(ctx, http.MethodGet, "/time", nil, &resp)
	return resp.Time, err
}

// GetConfig returns the configuration of the node.
func (c *Client) GetConfig(ctx context.Context) (ConfigResp, error) {
	var resp ConfigResp
	err := c.do(ctx, http.MethodGet, "/config", nil, &resp)
	return resp, err
}

// CreateCampaign creates a campaign managed by the caller and returns its address.
func (c *Client) CreateCampaign(ctx context.Context, caller common.Address, minimumContribution *big.Int) (
	common.Address, error) {
	req := CreateCampaignReq{Caller: caller.Hex(), MinimumContribution: minimumContribution.String()}
	var resp CreateCampaignResp
	if err := c.do(ctx, http.MethodPost, "/campaigns", req, &resp); err != nil {
		return common.Address{}, err
	}
	return parseRespAddr(resp.Address)
}

// GetDeployedCampaigns returns the addresses of all campaigns in creation order.
func (c *Client) GetDeployedCampaigns(ctx context.Context) ([]common.Address, error) {
	var resp DeployedCampaignsResp
	if err := c.do(ctx, http.MethodGet, "/campaigns", nil, &resp); err != nil {
		return nil, err
	}
	return parseRespAddrs(resp.Campaigns)
}

// GetSummary returns the summary of the campaign.
func (c *Client) GetSummary(ctx context.Context, campaign common.Address) (crowdfund.CampaignSummary, error) {
	var resp SummaryResp
	if err := c.do(ctx, http.MethodGet, campaignPath(campaign), nil, &resp); err != nil {
		return crowdfund.CampaignSummary{}, err
	}

	summary := crowdfund.CampaignSummary{
		RequestsCount:  resp.RequestsCount,
		ApproversCount: resp.ApproversCount,
	}
	var err error
	if summary.Address, err = parseRespAddr(resp.Address); err != nil {
		return crowdfund.CampaignSummary{}, err
	}
	if summary.Manager, err = parseRespAddr(resp.Manager); err != nil {
		return crowdfund.CampaignSummary{}, err
	}
	if summary.MinimumContribution, err = parseRespWei(resp.MinimumContribution); err != nil {
		return crowdfund.CampaignSummary{}, err
	}
	if summary.Balance, err = parseRespWei(resp.Balance); err != nil {
		return crowdfund.CampaignSummary{}, err
	}
	return summary, nil
}

// Contribute transfers value from the caller to the campaign.
func (c *Client) Contribute(ctx context.Context, campaign, caller common.Address, value *big.Int) error {
	req := ContributeReq{Caller: caller.Hex(), Value: value.String()}
	return c.do(ctx, http.MethodPost, campaignPath(campaign)+"/contribute", req, nil)
}

// IsApprover reports whether addr is an approver of the campaign.
func (c *Client) IsApprover(ctx context.Context, campaign, addr common.Address) (bool, error) {
	var resp IsApproverResp
	err := c.do(ctx, http.MethodGet, campaignPath(campaign)+"/approvers/"+addr.Hex(), nil, &resp)
	return resp.IsApprover, err
}

// CreateRequest creates a spending request in the campaign and returns its index.
func (c *Client) CreateRequest(ctx context.Context, campaign, caller common.Address, description string,
	value *big.Int, recipient common.Address) (int, error) {
	req := CreateRequestReq{
		Caller:      caller.Hex(),
		Description: description,
		Value:       value.String(),
		Recipient:   recipient.Hex(),
	}
	var resp CreateRequestResp
	err := c.do(ctx, http.MethodPost, campaignPath(campaign)+"/requests", req, &resp)
	return resp.Index, err
}

// GetRequestsCount returns the number of requests in the campaign.
func (c *Client) GetRequestsCount(ctx context.Context, campaign common.Address) (int, error) {
	var resp RequestsCountResp
	err := c.do(ctx, http.MethodGet, campaignPath(campaign)+"/requests", nil, &resp)
	return resp.Count, err
}

// GetRequest returns the request at index in the campaign.
func (c *Client) GetRequest(ctx context.Context, campaign common.Address, index int) (crowdfund.Request, error) {
	var resp RequestResp
	if err := c.do(ctx, http.MethodGet, requestPath(campaign, index), nil, &resp); err != nil {
		return crowdfund.Request{}, err
	}

	req := crowdfund.Request{
		Description:   resp.Description,
		Complete:      resp.Complete,
		ApprovalCount: resp.ApprovalCount,
	}
	var err error
	if req.Value, err = parseRespWei(resp.Value); err != nil {
		return crowdfund.Request{}, err
	}
	if req.Recipient, err = parseRespAddr(resp.Recipient); err != nil {
		return crowdfund.Request{}, err
	}
	return req, nil
}

// ApproveRequest approves the request at index on behalf of the caller.
func (c *Client) ApproveRequest(ctx context.Context, campaign, caller common.Address, index int) error {
	return c.do(ctx, http.MethodPost, requestPath(campaign, index)+"/approve", CallerReq{Caller: caller.Hex()}, nil)
}

// FinalizeRequest finalizes the request at index on behalf of the caller.
func (c *Client) FinalizeRequest(ctx context.Context, campaign, caller common.Address, index int) error {
	return c.do(ctx, http.MethodPost, requestPath(campaign, index)+"/finalize", CallerReq{Caller: caller.Hex()}, nil)
}

// GetAccounts returns the addresses of all ledger accounts.
func (c *Client) GetAccounts(ctx context.Context) ([]common.Address, error) {
	var resp AccountsResp
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &resp); err != nil {
		return nil, err
	}
	return parseRespAddrs(resp.Accounts)
}

// GetBalance returns the ledger balance of addr.
func (c *Client) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	var resp BalanceResp
	if err := c.do(ctx, http.MethodGet, "/accounts/"+addr.Hex(), nil, &resp); err != nil {
		return nil, err
	}
	return parseRespWei(resp.Balance)
}

// do sends the request and decodes the response into respBody. Error responses are decoded
// into an API error.
func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp ErrorResp
		if err = json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return errors.Errorf("request failed with status %s", resp.Status)
		}
		return fromErrorResp(errResp)
	}
	if respBody == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(respBody), "decoding response")
}

func campaignPath(campaign common.Address) string {
	return "/campaigns/" + campaign.Hex()
}

func requestPath(campaign common.Address, index int) string {
	return fmt.Sprintf("%s/requests/%d", campaignPath(campaign), index)
}

func parseRespAddr(s string) (common.Address, error) {
	addr, err := crowdfund.ParseAddr("address", s)
	return addr, errors.WithMessage(err, "decoding response")
}

func parseRespAddrs(list []string) ([]common.Address, error) {
	addrs := make([]common.Address, len(list))
	for i := range list {
		var err error
		if addrs[i], err = parseRespAddr(list[i]); err != nil {
			return nil, err
		}
	}
	return addrs, nil
}

func parseRespWei(s string) (*big.Int, error) {
	amount, err := crowdfund.ParseWei("amount", s)
	return amount, errors.WithMessage(err, "decoding response")
}
