package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/q0jt/go-mfghex/ihex"
	"github.com/q0jt/go-mfghex/nrf"
)

func init() {
	extendCmd.Flags().StringVarP(&inPath, "in", "i", "", "manufacturing data HEX file")
	extendCmd.Flags().StringVarP(&outPath, "out", "o", "", "extended HEX file to write")
	extendCmd.Flags().StringVar(&imagePath, "uf2", "", "UF2 image to write; no conversion when empty")
	extendCmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest to write")
	extendCmd.Flags().Uint32Var(&startAddr, "start", 0, "first address; the layout's when unset")
	extendCmd.Flags().Uint32Var(&endAddr, "end", 0, "last address; the layout's when unset")
	extendCmd.MarkFlagRequired("in")
	extendCmd.MarkFlagRequired("out")
	addExtendFlags(extendCmd.Flags())
	addConverterFlags(extendCmd.Flags())
	rootCmd.AddCommand(extendCmd)
}

var (
	inPath       string
	outPath      string
	imagePath    string
	manifestPath string
	startAddr    uint32
	endAddr      uint32
)

var extendCmd = &cobra.Command{
	Use:   "extend",
	Short: "Extend one HEX file over the manufacturing region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		l, err := nrf.LoadLayout(ctx, configPath, boardName)
		if err != nil {
			return err
		}
		r, err := l.Range()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("start") {
			r.Start = startAddr
		}
		if cmd.Flags().Changed("end") {
			r.End = endAddr
		}
		if r, err = ihex.NewRange(r.Start, r.End); err != nil {
			return err
		}

		opts := append([]nrf.ExtendOption{nrf.WithFiller(l.Filler)}, extendOptions(cmd.Flags())...)
		res, err := nrf.Extend(ctx, inPath, outPath, r, opts...)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)

		if imagePath != "" {
			conv, err := newConverter()
			if err != nil {
				return err
			}
			if conv == nil {
				return fmt.Errorf("--uf2 needs a converter")
			}
			if err := conv.Convert(ctx, outPath, imagePath, l.FamilyId); err != nil {
				return err
			}
			glog.Infof("wrote %s", imagePath)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", st.label.Render("image:  "), imagePath)
		}
		if manifestPath != "" {
			m, err := nrf.NewManifest(res, l.Board, imagePath)
			if err != nil {
				return err
			}
			if err := nrf.WriteManifest(manifestPath, m); err != nil {
				return err
			}
		}
		return nil
	},
}
