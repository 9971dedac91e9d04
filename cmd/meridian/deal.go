package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mercator-hq/meridian/pkg/deal"
	"mercator-hq/meridian/pkg/policy"
)

var dealCmd = &cobra.Command{
	Use:   "deal",
	Short: "Manage deal lifecycle records",
}

var (
	dealTransactionType string
	dealEntityName      string
	dealCounterparty    string

	transitionActor  string
	transitionReason string
	transitionForce  bool
	transitionScore  int
	transitionGrade  string
	transitionTier   string
	transitionClear  bool
)

var dealCreateCmd = &cobra.Command{
	Use:   "create [deal-id]",
	Short: "Open a new deal in DRAFT",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, store, err := newDealManager()
		if err != nil {
			return err
		}
		defer store.Close()

		id := "DEAL-" + uuid.New().String()
		if len(args) == 1 {
			id = args[0]
		}

		record, err := manager.Create(context.Background(), id,
			dealTransactionType, dealEntityName, dealCounterparty, nil)
		if err != nil {
			return err
		}
		fmt.Printf("created deal %s in state %s\n", record.ID, record.State)
		return nil
	},
}

var dealShowCmd = &cobra.Command{
	Use:   "show <deal-id>",
	Short: "Print a deal record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, store, err := newDealManager()
		if err != nil {
			return err
		}
		defer store.Close()

		record, err := manager.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var dealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all deal records",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, store, err := newDealManager()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := manager.List(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATE\tTYPE\tENTITY\tUPDATED")
		for _, record := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				record.ID, record.State, record.TransactionType,
				record.EntityName, record.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var dealTransitionCmd = &cobra.Command{
	Use:   "transition <deal-id> <target-state>",
	Short: "Attempt a gated state transition",
	Long: `Transition attempts to move a deal to the target state.

Gate inputs are optional: a flag that is not set means that dimension is
not evaluated. When a supplied gate fails and --force is not set, the
deal lands in BLOCKED instead of the requested state. Force never
bypasses the state graph itself.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, store, err := newDealManager()
		if err != nil {
			return err
		}
		defer store.Close()

		target := deal.State(args[1])
		if !target.Valid() {
			return fmt.Errorf("unknown state %q (valid: %v)", args[1], deal.States())
		}

		var inputs deal.GateInputs
		if cmd.Flags().Changed("score") {
			inputs.ComplianceScore = &transitionScore
		}
		if cmd.Flags().Changed("opinion") {
			inputs.OpinionGrade = &transitionGrade
		}
		if cmd.Flags().Changed("risk-tier") {
			inputs.RiskTier = &transitionTier
		}
		if cmd.Flags().Changed("clear") {
			inputs.ChecklistClear = &transitionClear
		}

		record, err := manager.Transition(context.Background(), args[0], target,
			transitionActor, transitionReason, inputs, transitionForce)
		if err != nil {
			return err
		}

		last := record.Transitions[len(record.Transitions)-1]
		fmt.Printf("deal %s: %s -> %s\n", record.ID, last.From, last.To)
		for name, check := range last.GateChecks {
			verdict := "pass"
			if !check.Passed {
				verdict = "FAIL"
			}
			fmt.Printf("  %s: %s (%s) %s\n", name, check.Value, check.Threshold, verdict)
		}
		if record.State == deal.StateBlocked && target != deal.StateBlocked {
			os.Exit(1)
		}
		return nil
	},
}

// newDealManager wires the file-backed store, the policy engine, and the
// lifecycle manager from the loaded configuration.
func newDealManager() (*deal.Manager, deal.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := deal.NewFileStore(cfg.Paths.DealDir)
	if err != nil {
		return nil, nil, err
	}
	policyCfg, err := policy.Load(cfg.Paths.PolicyFile)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	manager := deal.NewManager(store, policy.NewEngine(policyCfg), nil, deal.ManagerConfig{})
	return manager, store, nil
}

func init() {
	dealCreateCmd.Flags().StringVar(&dealTransactionType, "type", "", "transaction type name")
	dealCreateCmd.Flags().StringVar(&dealEntityName, "entity", "", "entity name (required)")
	dealCreateCmd.Flags().StringVar(&dealCounterparty, "counterparty", "", "counterparty name")
	dealCreateCmd.MarkFlagRequired("entity")

	dealTransitionCmd.Flags().StringVar(&transitionActor, "actor", "", "who is driving the transition")
	dealTransitionCmd.Flags().StringVar(&transitionReason, "reason", "", "reason recorded on the transition")
	dealTransitionCmd.Flags().BoolVar(&transitionForce, "force", false, "record gate failures but proceed anyway")
	dealTransitionCmd.Flags().IntVar(&transitionScore, "score", 0, "aggregated compliance score (0-100)")
	dealTransitionCmd.Flags().StringVar(&transitionGrade, "opinion", "", "legal opinion grade")
	dealTransitionCmd.Flags().StringVar(&transitionTier, "risk-tier", "", "risk classification tier")
	dealTransitionCmd.Flags().BoolVar(&transitionClear, "clear", false, "checklist clear-to-close verdict")

	dealCmd.AddCommand(dealCreateCmd, dealShowCmd, dealListCmd, dealTransitionCmd)
	rootCmd.AddCommand(dealCmd)
}
