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

// Command crowdfundnode runs a crowdfunding node and provides client commands for using the
// API of a running node.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rootCmd = &cobra.Command{
	Use:          "crowdfundnode",
	Short:        "Crowdfunding node",
	Long:         "Crowdfunding node hosting a campaign factory and its campaigns on an account ledger.",
	SilenceUsage: true,
}

// SPrintf style functions that produce colored text.
var redf, greenf = color.New(color.FgRed).SprintfFunc(), color.New(color.FgGreen).SprintfFunc()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// prettify returns a human readable representation of v.
func prettify(v interface{}) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return redf("error formatting output: %v", err)
	}
	return string(data)
}
