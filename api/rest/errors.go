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
	"net/http"

	"github.com/pkg/errors"

	"github.com/capaio/solidity-crowdfunding"
)

// statusCodes maps each error code to the HTTP status returned for it.
var statusCodes = map[crowdfund.ErrorCode]int{
	crowdfund.ErrUnauthorized:             http.StatusForbidden,
	crowdfund.ErrDuplicateApproval:        http.StatusConflict,
	crowdfund.ErrInsufficientContribution: http.StatusUnprocessableEntity,
	crowdfund.ErrResourceNotFound:         http.StatusNotFound,
	crowdfund.ErrInvalidArgument:          http.StatusBadRequest,
	crowdfund.ErrOutOfRange:               http.StatusNotFound,
	crowdfund.ErrInsufficientBalance:      http.StatusUnprocessableEntity,
	crowdfund.ErrInvalidConfig:            http.StatusBadRequest,
	crowdfund.ErrAlreadyFinalized:         http.StatusConflict,
	crowdfund.ErrMajorityNotReached:       http.StatusConflict,
	crowdfund.ErrInsufficientFunds:        http.StatusConflict,
	crowdfund.ErrUnknownInternal:          http.StatusInternalServerError,
}

// toErrorResp converts err to the error body and the HTTP status. Errors that are not API
// errors are reported as unknown internal errors.
func toErrorResp(err error) (int, ErrorResp) {
	var apiErr crowdfund.APIError
	if !errors.As(err, &apiErr) {
		apiErr = crowdfund.NewErrUnknownInternal(err)
	}
	status, ok := statusCodes[apiErr.Code()]
	if !ok {
		status = http.StatusInternalServerError
	}
	return status, ErrorResp{
		Category: apiErr.Category().String(),
		Code:     int(apiErr.Code()),
		Message:  apiErr.Message(),
		AddInfo:  apiErr.AddInfo(),
	}
}

// fromErrorResp reconstructs the API error from an error body. The additional info is kept in
// its decoded JSON form.
func fromErrorResp(resp ErrorResp) crowdfund.APIError {
	return crowdfund.NewAPIError(parseCategory(resp.Category), crowdfund.ErrorCode(resp.Code), resp.Message,
		resp.AddInfo)
}

func parseCategory(s string) crowdfund.ErrorCategory {
	for _, c := range []crowdfund.ErrorCategory{
		crowdfund.ParticipantError,
		crowdfund.ClientError,
		crowdfund.StateError,
		crowdfund.InternalError,
	} {
		if c.String() == s {
			return c
		}
	}
	return crowdfund.InternalError
}
