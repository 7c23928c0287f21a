// Command clubctl runs maintenance jobs against the configured store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"clubsphere/internal/app"
	"clubsphere/internal/config"
	"clubsphere/internal/logger"
	"clubsphere/internal/service"

	"github.com/spf13/pflag"
)

const usage = `usage: clubctl [-c config.yaml] <command>

commands:
  reconcile-members     recompute every club's members count from active memberships
  expire-memberships    end active memberships whose term has passed
  make-admin <email>    promote an existing user to admin
`

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config.yaml")
	batch := pflag.Int("batch", 500, "clubs per reconcile batch")
	pflag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	pflag.Parse()

	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}
	if err := run(*configPath, *batch, pflag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "clubctl:", err)
		os.Exit(1)
	}
}

func run(configPath string, batch int, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: cfg.Settings.Debug}); err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg)
	defer a.Close()
	if err != nil {
		return err
	}
	reconciler := service.NewReconciler(a.Stores.Clubs, a.Stores.Memberships, a.Notifier, batch)

	switch args[0] {
	case "reconcile-members":
		report, err := reconciler.ReconcileMembers(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("scanned %d clubs, corrected %d\n", report.Scanned, report.Updated)
	case "expire-memberships":
		n, err := reconciler.ExpireMemberships(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		fmt.Printf("expired %d memberships\n", n)
	case "make-admin":
		if len(args) != 2 {
			return fmt.Errorf("make-admin needs exactly one email")
		}
		u, err := service.NewUserService(a.Stores.Users).MakeAdmin(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", u.Email, u.Role)
	default:
		pflag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
