package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/piwi3910/BoxStack/internal/engine"
)

func newCompareCommand() *cobra.Command {
	o := &inputOptions{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Pack a part list under alternative settings and compare the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, inputs, err := o.resolve(cmd.Flags(), klog.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			scenarios := engine.BuildDefaultScenarios(settings)
			for _, in := range inputs {
				if len(inputs) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "\n== %s ==\n", in.name)
				}
				printComparison(cmd.OutOrStdout(), engine.CompareScenarios(scenarios, in.parts, in.container))
			}
			return nil
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}
