package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/piwi3910/BoxStack/internal/model"
)

func newEstimateCommand() *cobra.Command {
	o := &inputOptions{}
	var waste, price float64
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate how many containers a part list needs by volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, inputs, err := o.resolve(cmd.Flags(), klog.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			for _, in := range inputs {
				if len(inputs) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "\n== %s ==\n", in.name)
				}
				est := model.CalculateContainerEstimate(in.parts, in.container, waste, price)
				printEstimate(cmd.OutOrStdout(), in.container, est)
			}
			return nil
		},
	}
	o.addFlags(cmd.Flags())
	cmd.Flags().Float64Var(&waste, "waste", 15, "Waste percentage added to the volume bound")
	cmd.Flags().Float64Var(&price, "price", 0, "Price per container")
	return cmd
}
