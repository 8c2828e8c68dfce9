package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const releaseVersion = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &Config{fs: afero.NewOsFs()}
	cmd := newCmd(cfg)
	cmd.SetIn(os.Stdin)

	cobra.CheckErr(cmd.ExecuteContext(ctx))
}
