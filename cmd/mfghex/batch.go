package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/q0jt/go-mfghex/nrf"
)

func init() {
	batchCmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "continue after a failed device")
	batchCmd.Flags().StringVar(&imageDir, "image-dir", ".", "directory receiving the UF2 images")
	addExtendFlags(batchCmd.Flags())
	addConverterFlags(batchCmd.Flags())
	rootCmd.AddCommand(batchCmd)
}

var (
	keepGoing bool
	imageDir  string
)

var batchCmd = &cobra.Command{
	Use:   "batch dir...",
	Short: "Extend and convert the " + nrf.MfgHexName + " of each device directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		l, err := nrf.LoadLayout(ctx, configPath, boardName)
		if err != nil {
			return err
		}
		conv, err := newConverter()
		if err != nil {
			return err
		}
		jobs, err := nrf.JobsFromDirs(args, imageDir)
		if err != nil {
			return err
		}
		results, err := nrf.RunBatch(ctx, jobs, l, conv, keepGoing, extendOptions(cmd.Flags())...)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		failed := 0
		for _, jr := range results {
			if jr.Err != nil {
				failed++
				fmt.Fprintf(w, "%s %s: %v\n", st.fail.Render("FAIL"), jr.Job.Name, jr.Err)
				continue
			}
			fmt.Fprintf(w, "%s %s %s\n", st.ok.Render("ok  "), jr.Job.Name, st.label.Render(jr.Job.Output))
		}
		if skipped := len(jobs) - len(results); skipped > 0 {
			fmt.Fprintf(w, "%d skipped\n", skipped)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d devices failed", failed, len(jobs))
		}
		return nil
	},
}
