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

package crowdfund

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents the category of the error, which describes how the
// error should be handled by the client.
type ErrorCategory int

const (
	// ParticipantError is caused by the calling identity not being allowed to
	// perform the action under the rules of the campaign.
	//
	// To resolve this, the action should be retried by an identity that holds
	// the required role.
	ParticipantError ErrorCategory = iota

	// ClientError is caused by the errors in the request from the client. It
	// could be malformed arguments, references to unknown resources or missing
	// funds in the calling account.
	//
	// To resolve this, the client should provide valid arguments and retry.
	ClientError

	// StateError is caused when the action is not possible in the current state
	// of the campaign or the request. The state may change later (more
	// approvals, more contributions), except for finalized requests.
	StateError

	// InternalError is caused due to unintended behavior in the node software
	// or a failure of the state store.
	//
	// To resolve this, user should manually inspect the error message and
	// handle it.
	InternalError
)

// String implements the stringer interface for ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ParticipantError:
		return "Participant"
	case ClientError:
		return "Client"
	case StateError:
		return "State"
	case InternalError:
		return "Internal"
	}
	return fmt.Sprintf("Unknown(%d)", int(c))
}

// ErrorCode is a numeric code assigned to identify the specific type of error.
// The keys in the additional field is fixed for each error code.
type ErrorCode int

// Error code definitions.
const (
	ErrUnauthorized             ErrorCode = 101
	ErrDuplicateApproval        ErrorCode = 102
	ErrInsufficientContribution ErrorCode = 103
	ErrResourceNotFound         ErrorCode = 201
	ErrInvalidArgument          ErrorCode = 202
	ErrOutOfRange               ErrorCode = 203
	ErrInsufficientBalance      ErrorCode = 204
	ErrInvalidConfig            ErrorCode = 205
	ErrAlreadyFinalized         ErrorCode = 301
	ErrMajorityNotReached       ErrorCode = 302
	ErrInsufficientFunds        ErrorCode = 303
	ErrUnknownInternal          ErrorCode = 401
)

// APIError represents the error that will be returned by the API of the node.
type APIError struct {
	category ErrorCategory
	code     ErrorCode
	message  string
	addInfo  interface{}
}

// NewAPIError returns an API error with the given fields. It is meant for
// reconstructing errors received over the wire; use the specific constructors
// otherwise.
func NewAPIError(category ErrorCategory, code ErrorCode, message string, addInfo interface{}) APIError {
	return APIError{category: category, code: code, message: message, addInfo: addInfo}
}

// Category returns the error category for this API Error.
func (e APIError) Category() ErrorCategory {
	return e.category
}

// Code returns the error code for this API Error.
func (e APIError) Code() ErrorCode {
	return e.code
}

// Message returns the error message for this API Error.
func (e APIError) Message() string {
	return e.message
}

// AddInfo returns the additional info for this API Error.
func (e APIError) AddInfo() interface{} {
	return e.addInfo
}

// Error implement the error interface for API error.
func (e APIError) Error() string {
	return fmt.Sprintf("Category: %s, Code: %d, Message: %s, AddInfo: %+v",
		e.Category(), e.Code(), e.Message(), e.AddInfo())
}

// CodeOf returns the code of the API error in the chain of err.
// ok is false if err does not wrap an API error.
func CodeOf(err error) (code ErrorCode, ok bool) {
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}
	return apiErr.Code(), true
}

type (
	// UnauthorizedInfo represents the fields in the additional info for
	// ErrUnauthorized.
	UnauthorizedInfo struct {
		Caller       string
		RequiredRole string
	}

	// DuplicateApprovalInfo represents the fields in the additional info for
	// ErrDuplicateApproval.
	DuplicateApprovalInfo struct {
		RequestIndex int
		Approver     string
	}

	// InsufficientContributionInfo represents the fields in the additional info for
	// ErrInsufficientContribution.
	InsufficientContributionInfo struct {
		Minimum string
		Value   string
	}

	// ResourceNotFoundInfo represents the fields in the additional info for
	// ErrResourceNotFound.
	ResourceNotFoundInfo struct {
		Type string
		ID   string
	}

	// InvalidArgumentInfo represents the fields in the additional info for
	// ErrInvalidArgument.
	InvalidArgumentInfo struct {
		Name        string
		Value       string
		Requirement string
	}

	// OutOfRangeInfo represents the fields in the additional info for
	// ErrOutOfRange.
	OutOfRangeInfo struct {
		Type   string
		Index  int
		Length int
	}

	// InsufficientBalanceInfo represents the fields in the additional info for
	// ErrInsufficientBalance.
	InsufficientBalanceInfo struct {
		Account string
		Balance string
		Amount  string
	}

	// InvalidConfigInfo represents the fields in the additional info for
	// ErrInvalidConfig.
	InvalidConfigInfo struct {
		Name  string
		Value string
	}

	// AlreadyFinalizedInfo represents the fields in the additional info for
	// ErrAlreadyFinalized.
	AlreadyFinalizedInfo struct {
		RequestIndex int
	}

	// MajorityNotReachedInfo represents the fields in the additional info for
	// ErrMajorityNotReached.
	MajorityNotReachedInfo struct {
		RequestIndex   int
		ApprovalCount  int
		ApproversCount int
	}

	// InsufficientFundsInfo represents the fields in the additional info for
	// ErrInsufficientFunds.
	InsufficientFundsInfo struct {
		RequestIndex int
		Balance      string
		Value        string
	}
)

// Resource types used in ResourceNotFoundInfo and OutOfRangeInfo.
const (
	ResTypeCampaign = "campaign"
	ResTypeRequest  = "request"
	ResTypeAccount  = "account"
)

// NewErrUnauthorized returns an ErrUnauthorized API Error for a caller that
// does not hold the required role (manager or approver).
func NewErrUnauthorized(caller, requiredRole string) APIError {
	return APIError{
		category: ParticipantError,
		code:     ErrUnauthorized,
		message:  fmt.Sprintf("caller is not the %s", requiredRole),
		addInfo: UnauthorizedInfo{
			Caller:       caller,
			RequiredRole: requiredRole,
		},
	}
}

// NewErrDuplicateApproval returns an ErrDuplicateApproval API Error.
func NewErrDuplicateApproval(requestIndex int, approver string) APIError {
	return APIError{
		category: ParticipantError,
		code:     ErrDuplicateApproval,
		message:  "approver has already approved this request",
		addInfo: DuplicateApprovalInfo{
			RequestIndex: requestIndex,
			Approver:     approver,
		},
	}
}

// NewErrInsufficientContribution returns an ErrInsufficientContribution API Error.
func NewErrInsufficientContribution(minimum, value string) APIError {
	return APIError{
		category: ParticipantError,
		code:     ErrInsufficientContribution,
		message:  "contribution is less than the minimum contribution",
		addInfo: InsufficientContributionInfo{
			Minimum: minimum,
			Value:   value,
		},
	}
}

// NewErrResourceNotFound returns an ErrResourceNotFound API Error with
// the given resource type, ID and error message.
func NewErrResourceNotFound(resourceType, resourceID, message string) APIError {
	return APIError{
		category: ClientError,
		code:     ErrResourceNotFound,
		message:  message,
		addInfo: ResourceNotFoundInfo{
			Type: resourceType,
			ID:   resourceID,
		},
	}
}

// NewErrInvalidArgument returns an ErrInvalidArgument API Error with the given
// argument name, value, requirement for the argument and the error message.
func NewErrInvalidArgument(name, value, requirement, message string) APIError {
	return APIError{
		category: ClientError,
		code:     ErrInvalidArgument,
		message:  message,
		addInfo: InvalidArgumentInfo{
			Name:        name,
			Value:       value,
			Requirement: requirement,
		},
	}
}

// NewErrOutOfRange returns an ErrOutOfRange API Error for an index into a
// sequence of the given resource type and length.
func NewErrOutOfRange(resourceType string, index, length int) APIError {
	return APIError{
		category: ClientError,
		code:     ErrOutOfRange,
		message:  fmt.Sprintf("%s index out of range", resourceType),
		addInfo: OutOfRangeInfo{
			Type:   resourceType,
			Index:  index,
			Length: length,
		},
	}
}

// NewErrInsufficientBalance returns an ErrInsufficientBalance API Error for a
// ledger account that cannot pay the given amount.
func NewErrInsufficientBalance(account, balance, amount string) APIError {
	return APIError{
		category: ClientError,
		code:     ErrInsufficientBalance,
		message:  "insufficient balance in sender account",
		addInfo: InsufficientBalanceInfo{
			Account: account,
			Balance: balance,
			Amount:  amount,
		},
	}
}

// NewErrInvalidConfig returns an ErrInvalidConfig API Error for the given
// config parameter.
func NewErrInvalidConfig(name, value, message string) APIError {
	return APIError{
		category: ClientError,
		code:     ErrInvalidConfig,
		message:  message,
		addInfo: InvalidConfigInfo{
			Name:  name,
			Value: value,
		},
	}
}

// NewErrAlreadyFinalized returns an ErrAlreadyFinalized API Error.
func NewErrAlreadyFinalized(requestIndex int) APIError {
	return APIError{
		category: StateError,
		code:     ErrAlreadyFinalized,
		message:  "request is already finalized",
		addInfo:  AlreadyFinalizedInfo{RequestIndex: requestIndex},
	}
}

// NewErrMajorityNotReached returns an ErrMajorityNotReached API Error.
func NewErrMajorityNotReached(requestIndex, approvalCount, approversCount int) APIError {
	return APIError{
		category: StateError,
		code:     ErrMajorityNotReached,
		message:  "request is not approved by more than half of the approvers",
		addInfo: MajorityNotReachedInfo{
			RequestIndex:   requestIndex,
			ApprovalCount:  approvalCount,
			ApproversCount: approversCount,
		},
	}
}

// NewErrInsufficientFunds returns an ErrInsufficientFunds API Error.
func NewErrInsufficientFunds(requestIndex int, balance, value string) APIError {
	return APIError{
		category: StateError,
		code:     ErrInsufficientFunds,
		message:  "campaign balance is less than the request value",
		addInfo: InsufficientFundsInfo{
			RequestIndex: requestIndex,
			Balance:      balance,
			Value:        value,
		},
	}
}

// NewErrUnknownInternal returns an ErrUnknownInternal API Error with the given
// error as message.
func NewErrUnknownInternal(err error) APIError {
	return APIError{
		category: InternalError,
		code:     ErrUnknownInternal,
		message:  err.Error(),
	}
}
