package main

import (
	"context"
	"os"
	"runtime/debug"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/livekenceng/botgacor/internal/backend"
	"github.com/livekenceng/botgacor/internal/config"
	"github.com/livekenceng/botgacor/internal/logger"
	"github.com/livekenceng/botgacor/internal/machineid"
	"github.com/livekenceng/botgacor/internal/shopee"
	"github.com/livekenceng/botgacor/internal/tui"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "botgacor",
	Short: "Desktop client core for the botgacor live-commerce tooling",
	Long: `botgacor brokers between the account backend and the Shopee
authentication API. The login subcommand runs the interactive QR
handshake; the other subcommands expose the individual operations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(machineIDCmd)
	rootCmd.AddCommand(accountInfoCmd)
	rootCmd.AddCommand(accountsCmd)

	accountInfoCmd.Flags().StringVar(&cookieBlob, "cookies", "", "Session cookie blob obtained from a QR login")
	_ = accountInfoCmd.MarkFlagRequired("cookies")

	accountsCmd.Flags().StringVar(&memberEmail, "email", "", "Member email")
	accountsCmd.Flags().StringVar(&memberPassword, "password", "", "Member password")
	_ = accountsCmd.MarkFlagRequired("email")
	_ = accountsCmd.MarkFlagRequired("password")
}

// withApp assembles the fx application and runs the command body with
// the constructed clients.
func withApp(run any) error {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	app := fx.New(
		fx.NopLogger,
		fx.Provide(config.Load),
		fx.Invoke(func(cfg *config.Config) error {
			return logger.InitLogger(&cfg.Logging)
		}),
		backend.Module,
		shopee.Module,
		fx.Invoke(run),
	)
	defer func() { _ = logger.Sync() }()
	return app.Err()
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Run the interactive QR login handshake",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(client *shopee.Client) error {
			model, err := tui.RunLogin(client)
			if err != nil {
				return err
			}
			if err := model.Err(); err != nil {
				return err
			}
			outcome := model.Outcome()
			if outcome == nil {
				pterm.Warning.Println("Login aborted")
				return nil
			}
			if !outcome.Succeeded {
				pterm.Error.Println("Login failed:", outcome.ErrorMessage)
				return nil
			}
			pterm.Success.Println("Login succeeded")
			pterm.Info.Println("Cookies:", outcome.Cookies)
			if identity := model.Identity(); identity != nil {
				pterm.Info.Printf("Account: %s (%d)\n", identity.Username, identity.UserID)
			}
			return nil
		})
	},
}

var machineIDCmd = &cobra.Command{
	Use:   "machine-id",
	Short: "Print the identifier derived for this machine",
	Run: func(cmd *cobra.Command, args []string) {
		pterm.Println(machineid.ID())
	},
}

var (
	memberEmail    string
	memberPassword string
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the member's stored upstream accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(client *backend.Client) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			accounts, err := client.ShopeeAccounts(ctx, memberEmail, memberPassword)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				pterm.Info.Println("No accounts stored")
				return nil
			}
			for _, account := range accounts {
				state := "inactive"
				if account.IsActive {
					state = "active"
				}
				pterm.Info.Printf("%d\t%s\t%s\n", account.ID, account.Name, state)
			}
			return nil
		})
	},
}

var cookieBlob string

var accountInfoCmd = &cobra.Command{
	Use:   "account-info",
	Short: "Fetch upstream account metadata for a cookie blob",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(client *shopee.Client) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			identity, err := client.AccountInfo(ctx, cookieBlob)
			if err != nil {
				return err
			}
			pterm.Info.Printf("userid:   %d\n", identity.UserID)
			pterm.Info.Printf("username: %s\n", identity.Username)
			pterm.Info.Printf("nickname: %s\n", identity.Nickname)
			if identity.Email != nil {
				pterm.Info.Printf("email:    %s\n", *identity.Email)
			}
			if identity.Phone != nil {
				pterm.Info.Printf("phone:    %s\n", *identity.Phone)
			}
			return nil
		})
	},
}
