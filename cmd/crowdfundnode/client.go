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

package main

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/capaio/solidity-crowdfunding"
	"github.com/capaio/solidity-crowdfunding/api/rest"
	"github.com/capaio/solidity-crowdfunding/currency"
	"github.com/capaio/solidity-crowdfunding/node"
)

const (
	// flag names for client commands.
	nodeaddrF    = "nodeaddr"
	callerF      = "caller"
	minimumF     = "minimum"
	valueF       = "value"
	descriptionF = "description"
	recipientF   = "recipient"
)

var (
	campaignCmd = &cobra.Command{
		Use:   "campaign",
		Short: "Create, list, show and contribute to campaigns on a running node",
	}

	campaignCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a campaign managed by the caller. Usage: campaign create --caller <addr> --minimum <amount>",
		Args:  cobra.NoArgs,
		RunE:  campaignCreate,
	}

	campaignListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the addresses of the deployed campaigns",
		Args:  cobra.NoArgs,
		RunE:  campaignList,
	}

	campaignShowCmd = &cobra.Command{
		Use:   "show <campaign>",
		Short: "Show the summary of a campaign",
		Args:  cobra.ExactArgs(1),
		RunE:  campaignShow,
	}

	campaignContributeCmd = &cobra.Command{
		Use:   "contribute <campaign>",
		Short: "Contribute to a campaign. Usage: campaign contribute <campaign> --caller <addr> --value <amount>",
		Args:  cobra.ExactArgs(1),
		RunE:  campaignContribute,
	}

	requestCmd = &cobra.Command{
		Use:   "request",
		Short: "Create, show, approve and finalize spending requests of a campaign on a running node",
	}

	requestCreateCmd = &cobra.Command{
		Use:   "create <campaign>",
		Short: "Create a spending request. Usage: request create <campaign> --caller <addr> --description <text> --value <amount> --recipient <addr>",
		Args:  cobra.ExactArgs(1),
		RunE:  requestCreate,
	}

	requestShowCmd = &cobra.Command{
		Use:   "show <campaign> <index>",
		Short: "Show a spending request",
		Args:  cobra.ExactArgs(2),
		RunE:  requestShow,
	}

	requestApproveCmd = &cobra.Command{
		Use:   "approve <campaign> <index>",
		Short: "Approve a spending request. Usage: request approve <campaign> <index> --caller <addr>",
		Args:  cobra.ExactArgs(2),
		RunE:  requestApprove,
	}

	requestFinalizeCmd = &cobra.Command{
		Use:   "finalize <campaign> <index>",
		Short: "Finalize a spending request. Usage: request finalize <campaign> <index> --caller <addr>",
		Args:  cobra.ExactArgs(2),
		RunE:  requestFinalize,
	}

	accountCmd = &cobra.Command{
		Use:   "account",
		Short: "List ledger accounts and show balances on a running node",
	}

	accountListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the ledger accounts",
		Args:  cobra.NoArgs,
		RunE:  accountList,
	}

	accountBalanceCmd = &cobra.Command{
		Use:   "balance <addr>",
		Short: "Show the balance of an account or a campaign",
		Args:  cobra.ExactArgs(1),
		RunE:  accountBalance,
	}
)

func init() {
	for _, cmd := range []*cobra.Command{campaignCmd, requestCmd, accountCmd} {
		cmd.PersistentFlags().String(nodeaddrF, node.DefaultRESTAddr, "address at which the node serves its API")
		rootCmd.AddCommand(cmd)
	}

	campaignCmd.AddCommand(campaignCreateCmd, campaignListCmd, campaignShowCmd, campaignContributeCmd)
	requestCmd.AddCommand(requestCreateCmd, requestShowCmd, requestApproveCmd, requestFinalizeCmd)
	accountCmd.AddCommand(accountListCmd, accountBalanceCmd)

	amountUsage := "amount in ETH (0.5) or in wei with wei suffix (500wei)"
	for _, cmd := range []*cobra.Command{
		campaignCreateCmd, campaignContributeCmd,
		requestCreateCmd, requestApproveCmd, requestFinalizeCmd,
	} {
		cmd.Flags().String(callerF, "", "address of the identity on whose behalf the call is made")
	}
	campaignCreateCmd.Flags().String(minimumF, "", "minimum contribution, "+amountUsage)
	campaignContributeCmd.Flags().String(valueF, "", "contribution, "+amountUsage)
	requestCreateCmd.Flags().String(valueF, "", "value to transfer to the recipient, "+amountUsage)
	requestCreateCmd.Flags().String(descriptionF, "", "description of the request")
	requestCreateCmd.Flags().String(recipientF, "", "address of the recipient")
}

func campaignCreate(cmd *cobra.Command, _ []string) error {
	caller, err := addrFlag(cmd, callerF)
	if err != nil {
		return err
	}
	minimum, err := amountFlag(cmd, minimumF)
	if err != nil {
		return err
	}
	campaign, err := newClient(cmd).CreateCampaign(cmd.Context(), caller, minimum)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), greenf("Created campaign %s", campaign.Hex()))
	return nil
}

func campaignList(cmd *cobra.Command, _ []string) error {
	campaigns, err := newClient(cmd).GetDeployedCampaigns(cmd.Context())
	if err != nil {
		return err
	}
	for i, campaign := range campaigns {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, campaign.Hex())
	}
	return nil
}

func campaignShow(cmd *cobra.Command, args []string) error {
	campaign, err := crowdfund.ParseAddr("campaign", args[0])
	if err != nil {
		return err
	}
	summary, err := newClient(cmd).GetSummary(cmd.Context(), campaign)
	if err != nil {
		return err
	}
	eth := currency.NewParser(currency.ETH)
	fmt.Fprint(cmd.OutOrStdout(), prettify(map[string]interface{}{
		"address":             summary.Address.Hex(),
		"manager":             summary.Manager.Hex(),
		"minimumContribution": summary.MinimumContribution.String() + " wei",
		"balance":             eth.Print(summary.Balance) + " ETH",
		"requestsCount":       summary.RequestsCount,
		"approversCount":      summary.ApproversCount,
	}))
	return nil
}

func campaignContribute(cmd *cobra.Command, args []string) error {
	campaign, err := crowdfund.ParseAddr("campaign", args[0])
	if err != nil {
		return err
	}
	caller, err := addrFlag(cmd, callerF)
	if err != nil {
		return err
	}
	value, err := amountFlag(cmd, valueF)
	if err != nil {
		return err
	}
	if err = newClient(cmd).Contribute(cmd.Context(), campaign, caller, value); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), greenf("Contributed %s wei to campaign %s", value, campaign.Hex()))
	return nil
}

func requestCreate(cmd *cobra.Command, args []string) error {
	campaign, err := crowdfund.ParseAddr("campaign", args[0])
	if err != nil {
		return err
	}
	caller, err := addrFlag(cmd, callerF)
	if err != nil {
		return err
	}
	value, err := amountFlag(cmd, valueF)
	if err != nil {
		return err
	}
	recipient, err := addrFlag(cmd, recipientF)
	if err != nil {
		return err
	}
	description, err := cmd.Flags().GetString(descriptionF)
	if err != nil {
		return err
	}

	index, err := newClient(cmd).CreateRequest(cmd.Context(), campaign, caller, description, value, recipient)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), greenf("Created request %d in campaign %s", index, campaign.Hex()))
	return nil
}

func requestShow(cmd *cobra.Command, args []string) error {
	campaign, index, err := campaignIndexArgs(args)
	if err != nil {
		return err
	}
	req, err := newClient(cmd).GetRequest(cmd.Context(), campaign, index)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), prettify(map[string]interface{}{
		"description":   req.Description,
		"value":         currency.NewParser(currency.ETH).Print(req.Value) + " ETH",
		"recipient":     req.Recipient.Hex(),
		"complete":      req.Complete,
		"approvalCount": req.ApprovalCount,
	}))
	return nil
}

func requestApprove(cmd *cobra.Command, args []string) error {
	campaign, index, err := campaignIndexArgs(args)
	if err != nil {
		return err
	}
	caller, err := addrFlag(cmd, callerF)
	if err != nil {
		return err
	}
	if err = newClient(cmd).ApproveRequest(cmd.Context(), campaign, caller, index); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), greenf("Approved request %d in campaign %s", index, campaign.Hex()))
	return nil
}

func requestFinalize(cmd *cobra.Command, args []string) error {
	campaign, index, err := campaignIndexArgs(args)
	if err != nil {
		return err
	}
	caller, err := addrFlag(cmd, callerF)
	if err != nil {
		return err
	}
	if err = newClient(cmd).FinalizeRequest(cmd.Context(), campaign, caller, index); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), greenf("Finalized request %d in campaign %s", index, campaign.Hex()))
	return nil
}

func accountList(cmd *cobra.Command, _ []string) error {
	accs, err := newClient(cmd).GetAccounts(cmd.Context())
	if err != nil {
		return err
	}
	for i, acc := range accs {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, acc.Hex())
	}
	return nil
}

func accountBalance(cmd *cobra.Command, args []string) error {
	addr, err := crowdfund.ParseAddr("addr", args[0])
	if err != nil {
		return err
	}
	bal, err := newClient(cmd).GetBalance(cmd.Context(), addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s ETH (%s wei)\n", currency.NewParser(currency.ETH).Print(bal), bal)
	return nil
}

func newClient(cmd *cobra.Command) *rest.Client {
	addr, err := cmd.Flags().GetString(nodeaddrF)
	if err != nil {
		panic("unknown flag nodeaddr\n")
	}
	return rest.NewClient(addr)
}

func addrFlag(cmd *cobra.Command, name string) (common.Address, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return common.Address{}, err
	}
	return crowdfund.ParseAddr(name, value)
}

func amountFlag(cmd *cobra.Command, name string) (*big.Int, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	amount, err := currency.ParseAmount(value)
	return amount, errors.WithMessagef(err, "parsing %s", name)
}

func campaignIndexArgs(args []string) (common.Address, int, error) {
	campaign, err := crowdfund.ParseAddr("campaign", args[0])
	if err != nil {
		return common.Address{}, 0, err
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return common.Address{}, 0, crowdfund.NewErrInvalidArgument("index", args[1], "integer",
			"invalid request index")
	}
	return campaign, index, nil
}
