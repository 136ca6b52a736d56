package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevin07696/hyperpay-gateway/internal/resultcode"
)

func classifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <result-code>",
		Short: "Classify a HyperPay result code offline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.TrimSpace(args[0])
			w := cmd.OutOrStdout()
			info := resultcode.Lookup(code)

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					resultcode.Info
					Groups []string `json:"matched_groups"`
				}{info, resultcode.MatchedGroups(code)})
			}

			parsed := resultcode.Parse(code)
			if !parsed.Valid {
				fmt.Fprintf(w, "Warning: %s\n", parsed.Error)
			}
			fmt.Fprintf(w, "Code:        %s\n", info.Code)
			fmt.Fprintf(w, "Description: %s\n", info.Description)
			fmt.Fprintf(w, "Category:    %s\n", info.Category)
			fmt.Fprintf(w, "Outcome:     %s\n", resultcode.OutcomeOf(code))
			fmt.Fprintf(w, "Retryable:   %t\n", info.Retryable)
			fmt.Fprintf(w, "Action:      %s\n", info.SuggestedAction)
			if groups := resultcode.MatchedGroups(code); len(groups) > 0 {
				fmt.Fprintf(w, "Groups:      %s\n", strings.Join(groups, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
