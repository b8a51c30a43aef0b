package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/srg/blonboard/internal/onboarding"
	"github.com/srg/blonboard/pkg/config"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the onboarding service layout",
	Long: `Print the onboarding service UUID, its characteristics and the values
served by the read-only ones, as configured.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

var infoFormat string

func init() {
	infoCmd.Flags().StringVarP(&infoFormat, "format", "f", "table", "Output format (table, json)")
}

type characteristicInfo struct {
	Name        string `json:"name"`
	UUID        string `json:"uuid"`
	Properties  string `json:"properties"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
}

type serviceInfo struct {
	Name            string               `json:"name"`
	UUID            string               `json:"uuid"`
	Characteristics []characteristicInfo `json:"characteristics"`
}

func runInfo(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(infoFormat, "table", "json"); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	info := describeService(cfg)
	if infoFormat == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}
	return displayServiceTable(cmd.OutOrStdout(), info)
}

func describeService(cfg *config.Config) serviceInfo {
	values := map[string]string{
		onboarding.OnboardingResultCharUUID: fmt.Sprintf("%d", cfg.Onboarding.ResultCode),
		onboarding.ProtocolVersionCharUUID:  cfg.Onboarding.ProtocolVersion,
		onboarding.RossVersionCharUUID:      cfg.Onboarding.FirmwareVersion,
	}

	svc := onboarding.NewService(onboarding.DefaultValues(), nil, nil)
	info := serviceInfo{
		Name: cfg.Peripheral.DeviceName,
		UUID: svc.UUID(),
	}
	for _, c := range svc.Characteristics() {
		info.Characteristics = append(info.Characteristics, characteristicInfo{
			Name:        c.Name,
			UUID:        c.UUID,
			Properties:  c.Properties.String(),
			Description: c.Description,
			Value:       values[c.UUID],
		})
	}
	return info
}

func displayServiceTable(out io.Writer, info serviceInfo) error {
	bold := color.New(color.Bold)
	bold.Fprintf(out, "Service %s (%s)\n", info.UUID, info.Name)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUUID\tPROPERTIES\tVALUE")
	fmt.Fprintln(w, "----\t----\t----------\t-----")
	for _, c := range info.Characteristics {
		value := c.Value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.UUID, c.Properties, value)
	}
	return w.Flush()
}
