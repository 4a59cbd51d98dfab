package seed

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/visatide/identity-service/internal/config"
	"github.com/visatide/identity-service/internal/di"
	"github.com/visatide/identity-service/internal/tools/common"
)

type options struct {
	envFile       string
	adminPhone    string
	adminPassword string
	ci            bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.adminPhone, "admin-phone", "", "override bootstrap admin phone number")
	cmd.PersistentFlags().StringVar(&opts.adminPassword, "admin-password", "", "initial admin password")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Run migrations and seed the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := func() ([]string, error) {
				if err := common.LoadEnvFile(opts.envFile); err != nil {
					return nil, err
				}
				if opts.adminPassword == "" {
					return nil, fmt.Errorf("--admin-password is required")
				}
				runner, err := di.InitializeSeedRunner()
				if err != nil {
					return nil, err
				}
				if err := runner.Run(opts.adminPhone, opts.adminPassword); err != nil {
					return nil, err
				}
				return []string{
					"migrated users, credentials and password history tables",
					"bootstrap admin ensured",
				}, nil
			}()
			return report(opts, "seed apply", details, err)
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := func() ([]string, error) {
				if err := common.LoadEnvFile(opts.envFile); err != nil {
					return nil, err
				}
				cfg, err := config.Load()
				if err != nil {
					return nil, err
				}
				phone := cfg.BootstrapAdminPhone
				if opts.adminPhone != "" {
					phone = opts.adminPhone
				}
				details := []string{
					"would migrate: users, credentials, password_histories",
				}
				if phone != "" {
					details = append(details, "would ensure SUPER_ADMIN account for phone: "+phone)
				} else {
					details = append(details, "no admin phone configured, would skip admin bootstrap")
				}
				return details, nil
			}()
			return report(opts, "seed dry-run", details, err)
		},
	}
}

func report(opts *options, title string, details []string, err error) error {
	if opts.ci {
		common.PrintCIResult(err == nil, title, details, err)
	} else if err == nil {
		for _, d := range details {
			fmt.Println(d)
		}
	}
	if err != nil {
		if !opts.ci {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(3)
	}
	return nil
}
