// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for confval.
//
// This package implements the Cobra command hierarchy for the confval CLI:
// the root command, the get/set/convert document commands, configuration
// management, and shell completion.
package cmd
