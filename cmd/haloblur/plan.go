package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/haloblur"
	"github.com/gogpu/haloblur/internal/partition"
)

func newPlanCmd() *cobra.Command {
	var (
		height  int
		input   string
		workers int
		radius  int
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the row partition for an image height without filtering",
		Example: `  haloblur plan --height 100 --workers 4 --radius 2
  haloblur plan -i photo.png -w 8 -r 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input != "" {
				img, err := haloblur.Load(input)
				if err != nil {
					return err
				}
				height = img.Height()
			}
			if height == 0 {
				return errors.New("plan needs --height or --input")
			}

			plan, err := partition.New(height, workers, radius)
			if err != nil {
				return err
			}
			return printPlan(cmd, plan)
		},
	}

	f := cmd.Flags()
	f.IntVar(&height, "height", 0, "image height in rows")
	f.StringVarP(&input, "input", "i", "", "take the height from this image")
	f.IntVarP(&workers, "workers", "w", 4, "number of workers")
	f.IntVarP(&radius, "radius", "r", 1, "filter radius")
	return cmd
}

func printPlan(cmd *cobra.Command, plan partition.Plan) error {
	p := message.NewPrinter(language.English)
	w := cmd.OutOrStdout()

	if _, err := p.Fprintf(w, "height %d, %d workers, radius %d, halo %d, chunk %d\n",
		plan.Height, plan.Workers, plan.Radius, plan.Halo, plan.ChunkSize); err != nil {
		return err
	}
	for _, r := range plan.Ranges {
		if _, err := fmt.Fprintf(w, "  %v  trim %d/%d\n", r, r.LeadTrim(), r.TailTrim()); err != nil {
			return err
		}
	}
	_, err := p.Fprintf(w, "rows filtered %d for %d owned (%.1f%% halo overhead)\n",
		plan.PaddedRows(), plan.OwnedRows(), 100*plan.Overhead())
	return err
}
