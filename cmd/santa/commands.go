package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KirkDiggler/secretsanta/internal/auth"
	"github.com/KirkDiggler/secretsanta/internal/handlers/kiosk"
	"github.com/KirkDiggler/secretsanta/internal/models"
	"github.com/KirkDiggler/secretsanta/internal/reveal"
	"github.com/KirkDiggler/secretsanta/internal/services/draw"
	"github.com/KirkDiggler/secretsanta/internal/services/messaging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newCmd(cfg *Config) *cobra.Command {
	cfg.v = newViper(cfg.fs)

	cmd := &cobra.Command{
		Use:           "santa",
		Short:         "Secret Santa draws that respect families and stay put once drawn.",
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.load(cmd.Flags()); err != nil {
				return err
			}
			return cfg.validate()
		},
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.configFile, "config", "", "config file holding the roster (env: SANTA_CONFIG)")
	fs.StringVar(&cfg.store, "store", storeFile, "where draws are kept: file or redis (env: SANTA_STORE)")
	fs.StringVar(&cfg.stateFile, "state-file", "santa-state.json", "state file for the file store (env: SANTA_STATE_FILE)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "localhost:6379", "redis address (env: SANTA_REDIS_ADDR)")
	fs.StringVar(&cfg.redisPassword, "redis-password", "", "redis password (env: SANTA_REDIS_PASSWORD)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database (env: SANTA_REDIS_DB)")
	fs.StringVar(&cfg.redisPrefix, "redis-prefix", "santa", "redis key prefix for this device (env: SANTA_REDIS_PREFIX)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level (env: SANTA_LOG_LEVEL)")
	fs.DurationVar(&cfg.revealInterval, "reveal-interval", reveal.DefaultInterval, "delay between revealed letters (env: SANTA_REVEAL_INTERVAL)")

	cmd.AddCommand(
		newDrawCmd(cfg),
		newStatusCmd(cfg),
		newRosterCmd(cfg),
		newResetCmd(cfg),
		newHashPasswordCmd(cfg),
		newServeCmd(cfg),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("santa v{{.Version}}\n")

	return cmd
}

func newDrawCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "draw NAME",
		Short: "Draw a recipient, or show the one already drawn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			name := strings.TrimSpace(args[0])

			a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			output, err := a.draws.GetOrDraw(ctx, &draw.GetOrDrawInput{Drawer: name})
			if err != nil {
				msg, msgErr := a.messages.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Err: err})
				if msgErr != nil {
					return errors.Join(err, msgErr)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n%s\n", msg.Title, msg.Message)
				return fmt.Errorf("draw failed: %w", err)
			}

			err = reveal.Play(ctx, output.Recipient, &reveal.Config{Interval: cfg.revealInterval}, func(step reveal.Step) error {
				_, err := fmt.Fprint(out, step.Letter)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out)

			msg, err := a.messages.GetDrawResultMessage(ctx, &messaging.GetDrawResultMessageInput{
				Drawer:    name,
				Recipient: output.Recipient,
				IsNewDraw: output.IsNewDraw,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n%s\n", msg.Title, msg.Message)

			return nil
		},
	}
}

func newStatusCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who has drawn, without revealing anyone's recipient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			status, err := a.draws.GetStatus(cmd.Context(), &draw.GetStatusInput{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			lock := status.DeviceLock
			if lock == "" {
				lock = "(none)"
			}
			fmt.Fprintf(out, "Device: %s\n", lock)
			fmt.Fprintf(out, "Drawn: %d of %d\n", len(status.Drawn), status.Participants)
			for _, name := range status.Drawn {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintf(out, "Names left in the hat: %d\n", status.Remaining)

			return nil
		},
	}
}

func newRosterCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List participants grouped by family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := cfg.loadRoster()
			if err != nil {
				return err
			}

			families := r.Families()
			ids := make([]models.FamilyID, 0, len(families))
			for id := range families {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintf(out, "Family %d: %s\n", id, strings.Join(families[id], ", "))
			}

			return nil
		},
	}
}

func newResetCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe every draw and release the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.yes {
				return errors.New("reset wipes every draw; pass --yes to confirm")
			}

			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.draws.Reset(cmd.Context(), &draw.ResetInput{}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Draw reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&cfg.yes, "yes", false, "confirm the reset")

	return cmd
}

func newHashPasswordCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its hash for serve --admin-hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}

			hash, err := auth.CreateHash(password, auth.DefaultParams)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newServeCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web kiosk; one kiosk is one device and keeps one device lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateServe(); err != nil {
				return err
			}

			if cfg.adminHash != "" {
				if _, _, _, err := auth.DecodeHash(cfg.adminHash); err != nil {
					return fmt.Errorf("invalid --admin-hash: %w", err)
				}
			}

			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			server, err := kiosk.New(&kiosk.Config{
				Bind:             cfg.bind,
				Port:             cfg.port,
				AdminHash:        cfg.adminHash,
				RevealInterval:   cfg.revealInterval,
				DrawService:      a.draws,
				MessagingService: a.messages,
				Roster:           a.roster,
				Logger:           a.log,
			})
			if err != nil {
				return err
			}

			if cfg.adminHash == "" {
				a.log.Warn("No admin hash configured, kiosk reset is disabled")
			}

			return server.Run(cmd.Context())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "127.0.0.1", "address to bind to (env: SANTA_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SANTA_PORT)")
	fs.StringVar(&cfg.adminHash, "admin-hash", "", "argon2id hash of the kiosk reset password (env: SANTA_ADMIN_HASH)")

	return cmd
}
