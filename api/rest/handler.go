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

// Package rest serves the node API as JSON over HTTP and provides a client for it.
package rest

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/log"
)

// MaxBodyBytes is the maximum size of a request body.
const MaxBodyBytes = 1 << 20

// BasePath is the path prefix of all API routes.
const BasePath = "/api/v1"

// Handler serves the node API. Each route decodes its arguments, calls the node and encodes
// the result or the error.
type Handler struct {
	log.Logger

	n      crowdfund.NodeAPI
	router chi.Router
}

// NewHandler returns a handler with all routes of the API registered.
func NewHandler(n crowdfund.NodeAPI) *Handler {
	h := &Handler{
		Logger: log.NewLoggerWithField("api", "rest"),
		n:      n,
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequest)

	r.Route(BasePath, func(r chi.Router) {
		r.Get("/time", h.handleTime)
		r.Get("/config", h.handleGetConfig)

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.handleCreateCampaign)
			r.Get("/", h.handleGetDeployedCampaigns)

			r.Route("/{campaign}", func(r chi.Router) {
				r.Get("/", h.handleGetSummary)
				r.Post("/contribute", h.handleContribute)
				r.Get("/approvers/{approver}", h.handleIsApprover)

				r.Post("/requests", h.handleCreateRequest)
				r.Get("/requests", h.handleGetRequestsCount)
				r.Get("/requests/{index}", h.handleGetRequest)
				r.Post("/requests/{index}/approve", h.handleApproveRequest)
				r.Post("/requests/{index}/finalize", h.handleFinalizeRequest)
			})
		})

		r.Get("/accounts", h.handleGetAccounts)
		r.Get("/accounts/{account}", h.handleGetBalance)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Logger.Debugf("Received request: %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleTime(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, TimeResp{Time: h.n.Time()})
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, toConfigResp(h.n.GetConfig()))
}

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req CreateCampaignReq
	if err := decode(w, r, &req); err != nil {
		h.respondErr(w, err)
		return
	}
	caller, err := crowdfund.ParseAddr("caller", req.Caller)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	minimum, err := crowdfund.ParseWei("minimumContribution", req.MinimumContribution)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	addr, err := h.n.CreateCampaign(r.Context(), caller, minimum)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.respond(w, http.StatusCreated, CreateCampaignResp{Address: addr.Hex()})
}

func (h *Handler) handleGetDeployedCampaigns(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, DeployedCampaignsResp{Campaigns: hexList(h.n.GetDeployedCampaigns())})
}

func (h *Handler) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	campaign, err := pathAddr(r, "campaign")
	if err != nil {
		h.respondErr(w, err)
		return
	}
	summary, err := h.n.GetSummary(campaign)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.respond(w, http.StatusOK, toSummaryResp(summary))
}

func (h *Handler) handleContribute(w http.ResponseWriter, r *http.Request) {
	campaign, err := pathAddr(r, "campaign")
	if err != nil {
		h.respondErr(w, err)
		return
	}
	var req ContributeReq
	if err = decode(w, r, &req); err != nil {
		h.respondErr(w, err)
		return
	}
	caller, value, err := parseCallerValue(req.Caller, req.Value)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if err = h.n.Contribute(r.Context(), campaign, caller, value); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleIsApprover(w http.ResponseWriter, r *http.Request) {
	campaign, err := pathAddr(r, "campaign")
	if err != nil {
		h.respondErr(w, err)
		return
	}
	approver, err := pathAddr(r, "approver")
	if err != nil {
		h.respondErr(w, err)
		return
	}
	isApprover, err := h.n.IsApprover(campaign, approver)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.respond(w, http.StatusOK, IsApproverResp{IsApprover: isApprover})
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	campaign, err := pathAddr(r, "campaign")
	if err != nil {
		h.respondErr(w, err)
		return
	}
	var req CreateRequestReq
	if err = decode(w, r, &req); err != nil {
		h.respondErr(w, err)
		return
	}
	caller, value, err := parseCallerValue(req.Caller, req.Value)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	recipient, err := crowdfund.ParseAddr("recipient", req.Recipient)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	index, err := h.n.CreateRequest(r.Context(), campaign, caller, req.Description, value, recipient)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.respond(w, http.StatusCreated, CreateRequestResp{Index: index})
}

func (h *Handler) handleGetRequestsCount(w http.ResponseWriter, r *http.Request) {
	campaign, err := pathAddr(r, "campaign")
	if err != nil {
		h.respondErr(w, err)
		return
	}
	count, err := h.n.GetRequestsCount(campaign)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.respond(w, http.StatusOK, RequestsCountResp{Count: count})
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	campaign, index, err := pathCampaignIndex(r)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	req, err := h.n.GetRequest(campaign, index)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.respond(w, http.StatusOK, toRequestResp(req))
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.handleCallerAction(w, r, h.n.ApproveRequest)
}

func (h *Handler) handleFinalizeRequest(w http.ResponseWriter, r *http.Request) {
	h.handleCallerAction(w, r, h.n.FinalizeRequest)
}

// handleCallerAction handles the routes that act on a request on behalf of a caller without
// returning any data.
func (h *Handler) handleCallerAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, campaign, caller common.Address, index int) error) {
	campaign, index, err := pathCampaignIndex(r)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	var req CallerReq
	if err = decode(w, r, &req); err != nil {
		h.respondErr(w, err)
		return
	}
	caller, err := crowdfund.ParseAddr("caller", req.Caller)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if err = action(r.Context(), campaign, caller, index); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetAccounts(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, AccountsResp{Accounts: hexList(h.n.GetAccounts())})
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	account, err := pathAddr(r, "account")
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.respond(w, http.StatusOK, BalanceResp{Address: account.Hex(), Balance: h.n.GetBalance(account).String()})
}

func (h *Handler) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Errorf("Encoding response: %v", err)
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	status, resp := toErrorResp(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error(err)
	}
	h.respond(w, status, resp)
}

// decode reads a JSON request body of at most MaxBodyBytes into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(v); err != nil {
		return crowdfund.NewErrInvalidArgument("body", "", "valid JSON object", err.Error())
	}
	return nil
}

func parseCallerValue(callerStr, valueStr string) (common.Address, *big.Int, error) {
	caller, err := crowdfund.ParseAddr("caller", callerStr)
	if err != nil {
		return common.Address{}, nil, err
	}
	value, err := crowdfund.ParseWei("value", valueStr)
	if err != nil {
		return common.Address{}, nil, err
	}
	return caller, value, nil
}

func pathAddr(r *http.Request, param string) (common.Address, error) {
	return crowdfund.ParseAddr(param, chi.URLParam(r, param))
}

func pathCampaignIndex(r *http.Request) (common.Address, int, error) {
	campaign, err := pathAddr(r, "campaign")
	if err != nil {
		return common.Address{}, 0, err
	}
	indexStr := chi.URLParam(r, "index")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return common.Address{}, 0, crowdfund.NewErrInvalidArgument("index", indexStr, "integer",
			"invalid request index")
	}
	return campaign, index, nil
}

func hexList(addrs []common.Address) []string {
	list := make([]string, len(addrs))
	for i := range addrs {
		list[i] = addrs[i].Hex()
	}
	return list
}
