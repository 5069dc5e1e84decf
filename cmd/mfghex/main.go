// Command mfghex extends manufacturing HEX files over a board's
// manufacturing region and converts them to UF2 images.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/golang/glog"
)

func main() {
	flag.Set("logtostderr", "true")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, st.fail.Render("error:"), err)
		os.Exit(1)
	}
}
