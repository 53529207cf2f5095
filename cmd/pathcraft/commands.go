package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kalambet/pathcraft/internal/advisor"
	"github.com/kalambet/pathcraft/internal/career"
	"github.com/kalambet/pathcraft/internal/config"
	"github.com/kalambet/pathcraft/internal/dashboard"
)

// --- analyze ---

// profileFlags maps analyze flags to profile fields.
var profileFlags = []struct {
	flag, key, usage string
}{
	{"role", career.FieldRole, "current role"},
	{"skills", career.FieldSkills, "core skills"},
	{"skill-gaps", career.FieldSkillGaps, "skills to develop"},
	{"ambitions", career.FieldCareerAmbitions, "career aspirations"},
	{"language", career.FieldLanguage, "preferred language"},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a career profile and print recommendations",
	Long: `Analyze a career profile and print recommendations.

Every field is required.

Examples:
  pathcraft analyze --role "Software Developer" --skills Python \
    --skill-gaps AWS --ambitions CTO --language English
  pathcraft analyze --mock --json ...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		mock, _ := cmd.Flags().GetBool("mock")
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newAdvisor(cfg, mock)
		if err != nil {
			return err
		}
		ctrl := dashboard.New(a, dashboard.WithNotifier(dashboard.NotifierFunc(func(msg string) {
			printError("%s", msg)
		})))

		if err := applyProfileFlags(cmd, ctrl); err != nil {
			return err
		}

		printStep("Analyzing your profile...")
		recs, err := ctrl.Submit(cmd.Context())
		if err != nil {
			var missing *career.MissingFieldsError
			if errors.As(err, &missing) {
				return fmt.Errorf("please fill out all fields: missing %v", missing.Fields)
			}
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}
		printRecommendations(cmd.OutOrStdout(), recs)
		return nil
	},
}

func init() {
	for _, f := range profileFlags {
		analyzeCmd.Flags().String(f.flag, "", f.usage)
	}
	analyzeCmd.Flags().Bool("mock", false, "use canned recommendations instead of the advisor service")
	analyzeCmd.Flags().Bool("json", false, "print recommendations as JSON")
}

func applyProfileFlags(cmd *cobra.Command, ctrl *dashboard.Controller) error {
	for _, f := range profileFlags {
		v, _ := cmd.Flags().GetString(f.flag)
		if err := ctrl.SetField(f.key, v); err != nil {
			return err
		}
	}
	return nil
}

// newAdvisor picks the mock or the HTTP advisor. The mock is used when
// forced or when advisor.mock is set.
func newAdvisor(cfg config.Config, forceMock bool) (advisor.Advisor, error) {
	if forceMock || cfg.Advisor.Mock {
		delay, err := cfg.MockDelayDuration(advisor.DefaultMockDelay)
		if err != nil {
			printWarning("%v; using %s", err, delay)
		}
		return advisor.NewMock(delay), nil
	}
	if cfg.Advisor.BaseURL == "" {
		return nil, fmt.Errorf("advisor.base_url is not set")
	}
	return advisor.NewClient(cfg.Advisor.BaseURL), nil
}

// --- profile (against a running dashboard) ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect or edit the profile form of a running dashboard",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/state")
		if err != nil {
			return err
		}

		var view dashboard.View
		if err := decodeJSON(resp, &view); err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view.Profile)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one profile field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.patch(cmd.Context(), "/api/profile", map[string]string{key: value})
		if err != nil {
			return err
		}

		var p career.Profile
		if err := decodeJSON(resp, &p); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}

// --- submit ---

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the profile of a running dashboard and print recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/submit", nil)
		if err != nil {
			return err
		}

		var recs career.Recommendations
		if err := decodeJSON(resp, &recs); err != nil {
			return err
		}

		printRecommendations(cmd.OutOrStdout(), recs)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
