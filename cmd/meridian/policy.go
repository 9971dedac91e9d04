package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/meridian/pkg/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate the enforcement policy",
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Parse and validate a policy document",
	Long: `Validate parses a policy document and reports its effective settings.
With no argument the configured policy file is used. A missing file is
reported as the empty (advisory) policy, not an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path = cfg.Paths.PolicyFile
		}

		policyCfg, err := policy.Load(path)
		if err != nil {
			return err
		}
		engine := policy.NewEngine(policyCfg)

		fmt.Printf("policy:                         %s\n", path)
		fmt.Printf("execution tier:                 %d\n", engine.Tier())
		fmt.Printf("control sections:               %d\n", len(policyCfg.Controls))
		fmt.Printf("adverse blocks signature:       %t\n", engine.AdverseBlocksSignature())
		fmt.Printf("unable-to-opine blocks:         %t\n", engine.UnableToOpineBlocksSignature())
		fmt.Printf("audit every run:                %t\n", engine.AuditEveryRun())
		fmt.Println("valid")
		return nil
	},
}

func init() {
	policyCmd.AddCommand(policyValidateCmd)
	rootCmd.AddCommand(policyCmd)
}
