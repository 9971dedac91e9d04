package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/meridian/pkg/checklist"
	"mercator-hq/meridian/pkg/compliance"
	"mercator-hq/meridian/pkg/entity"
	"mercator-hq/meridian/pkg/evidence"
	"mercator-hq/meridian/pkg/policy"
)

var (
	checkEntityFile       string
	checkCounterpartyFile string
	checkTransactionFile  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run all compliance checkers and build the execution checklist",
	Long: `Check runs the compliance validator, red-flag detector, regulatory-claim
validator, and evidence validator over an entity (and optional counterparty
and transaction type), then aggregates every finding into one gated
execution checklist.

Exits non-zero when the checklist is not clear to close.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkEntityFile, "entity", "", "entity YAML file (required)")
	checkCmd.Flags().StringVar(&checkCounterpartyFile, "counterparty", "", "counterparty YAML file")
	checkCmd.Flags().StringVar(&checkTransactionFile, "transaction", "", "transaction type YAML file")
	checkCmd.MarkFlagRequired("entity")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	e, err := entity.LoadEntity(checkEntityFile)
	if err != nil {
		return err
	}
	var counterparty *entity.Entity
	if checkCounterpartyFile != "" {
		if counterparty, err = entity.LoadEntity(checkCounterpartyFile); err != nil {
			return err
		}
	}
	var txn *entity.TransactionType
	if checkTransactionFile != "" {
		if txn, err = entity.LoadTransactionType(checkTransactionFile); err != nil {
			return err
		}
	}

	policyCfg, err := policy.Load(cfg.Paths.PolicyFile)
	if err != nil {
		return err
	}
	engine := policy.NewEngine(policyCfg)

	rules, err := entity.LoadJurisdictionRules(cfg.Paths.JurisdictionRules)
	if err != nil {
		return err
	}
	matrix, err := entity.LoadRegulatoryMatrix(cfg.Paths.RegulatoryMatrix)
	if err != nil {
		return err
	}

	metrics := compliance.NewMetrics()
	validator := compliance.NewValidator(compliance.ValidatorConfig{Rules: rules, Metrics: metrics}, engine)
	detector := compliance.NewDetector(compliance.DetectorConfig{Metrics: metrics})
	regulatory := compliance.NewRegulatoryValidator(compliance.RegulatoryValidatorConfig{Matrix: matrix, Metrics: metrics})
	evidenceValidator := evidence.NewValidator(evidence.ValidatorConfig{
		EvidenceRoot: cfg.Paths.EvidenceRoot,
		AuditLogPath: cfg.Paths.AuditLog,
		Metrics:      metrics,
	})

	validation := validator.Check(e, counterparty, txn)
	flags := detector.Check(e, counterparty)
	claims := regulatory.Check(e)
	evidenceReport, err := evidenceValidator.Check(e, txn)
	if err != nil {
		// Audit failures surface but the report still prints.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	counterpartyName, transactionName := "", ""
	if counterparty != nil {
		counterpartyName = counterparty.Name
	}
	if txn != nil {
		transactionName = txn.Name
	}

	aggregator := checklist.NewAggregator(checklist.AggregatorConfig{})
	list := aggregator.Build(e.Name, counterpartyName, transactionName, checklist.Inputs{
		Validation: []*compliance.Report{validation, claims},
		RedFlags:   flags,
		Evidence:   evidenceReport,
	})

	printChecklist(list, validation, claims, flags)

	if disclaimer := engine.Disclaimer(); disclaimer.Enabled && disclaimer.Text != "" {
		fmt.Printf("\n%s\n", disclaimer.Text)
	}

	if !list.ClearToClose() {
		os.Exit(1)
	}
	return nil
}

func printChecklist(list *checklist.Checklist, validation, claims *compliance.Report, flags *compliance.RedFlagReport) {
	score := 100
	// Combined score over both validation reports.
	errs := validation.Errors() + claims.Errors()
	warns := validation.Warnings() + claims.Warnings()
	if s := 100 - 15*errs - 5*warns; s > 0 {
		score = s
	} else {
		score = 0
	}

	fmt.Printf("Entity:            %s\n", list.EntityName)
	if list.CounterpartyName != "" {
		fmt.Printf("Counterparty:      %s\n", list.CounterpartyName)
	}
	if list.TransactionType != "" {
		fmt.Printf("Transaction type:  %s\n", list.TransactionType)
	}
	fmt.Printf("Compliance score:  %d\n", score)
	fmt.Printf("Red flags:         %d (%d critical)\n", len(flags.Flags), flags.Critical())

	counts := list.Counts()
	fmt.Printf("Checklist items:   %d open, %d in progress, %d cleared, %d waived\n",
		counts.Open, counts.InProgress, counts.Cleared, counts.Waived)
	fmt.Printf("Clear to close:    %t\n", list.ClearToClose())

	grouped := list.ByGate()
	for _, gate := range checklist.GateOrder {
		items := grouped[gate]
		if len(items) == 0 {
			continue
		}
		fmt.Printf("\n%s:\n", gate)
		for _, item := range items {
			fmt.Printf("  [%s] %-8s (%s, %s) %s\n",
				item.ID, item.Priority, item.Category, item.Owner, item.Description)
		}
	}
}
