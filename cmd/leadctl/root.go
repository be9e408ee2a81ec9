package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leaddesk/leaddesk-dashboard/internal/handlers"
	"github.com/leaddesk/leaddesk-dashboard/internal/repository"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
	"github.com/leaddesk/leaddesk-dashboard/internal/session"
	apierrors "github.com/leaddesk/leaddesk-dashboard/pkg/errors"
	"github.com/leaddesk/leaddesk-dashboard/pkg/httpclient"
	"github.com/leaddesk/leaddesk-dashboard/pkg/leadsapi"
	"github.com/leaddesk/leaddesk-dashboard/pkg/logger"
)

const (
	defaultAPIURL = "http://localhost:5000/api"

	sessionExpiredMessage = "Session expired, please log in again"
)

// cli holds the global flags and the clients built from them
type cli struct {
	apiURL      string
	tokenFile   string
	phoneRegion string
	pageSize    int
	timeout     time.Duration
	verbose     bool

	out    io.Writer
	errOut io.Writer
	env    *viper.Viper

	store     *session.FileStore
	leads     *repository.LeadRepository
	auth      *services.AuthService
	form      *services.LeadFormService
	detail    *services.LeadDetailService
	analytics *services.AnalyticsService
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut, env: viper.New()}

	root := &cobra.Command{
		Use:   "leadctl",
		Short: "Manage LeadDesk leads from the command line",
		Long: `leadctl talks to the LeadDesk leads API.

Log in once with 'leadctl login'; the token is stored in the credentials
file and sent with every later command until it expires or you log out.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	// Global flags
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", defaultAPIURL, "Leads API base URL (or set LEADS_API_URL)")
	root.PersistentFlags().StringVar(&c.tokenFile, "token-file", "", "Credentials file (default: user config dir)")
	root.PersistentFlags().StringVar(&c.phoneRegion, "phone-region", "US", "Region for phone numbers without a country code (or set PHONE_DEFAULT_REGION)")
	root.PersistentFlags().IntVar(&c.pageSize, "limit", 10, "Leads per page")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Request timeout")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	// An explicit flag wins over the environment, which wins over the default.
	_ = c.env.BindPFlag("api-url", root.PersistentFlags().Lookup("api-url"))
	_ = c.env.BindEnv("api-url", "LEADS_API_URL")
	_ = c.env.BindPFlag("phone-region", root.PersistentFlags().Lookup("phone-region"))
	_ = c.env.BindEnv("phone-region", "PHONE_DEFAULT_REGION")

	root.AddCommand(c.loginCmd())
	root.AddCommand(c.signupCmd())
	root.AddCommand(c.logoutCmd())
	root.AddCommand(c.whoamiCmd())
	root.AddCommand(c.leadsCmd())
	root.AddCommand(c.analyticsCmd())

	return root
}

// setup builds the token store and the API clients once flags are parsed.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	c.apiURL = c.env.GetString("api-url")
	c.phoneRegion = c.env.GetString("phone-region")

	if c.verbose {
		if err := logger.Initialize(logger.Config{Level: "debug", Environment: "development", ServiceName: "leadctl"}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	if c.tokenFile == "" {
		path, err := session.DefaultFilePath()
		if err != nil {
			return err
		}
		c.tokenFile = path
	}
	c.store = session.NewFileStore(c.tokenFile)

	api := leadsapi.New(leadsapi.Config{
		BaseURL:    c.apiURL,
		HTTPClient: httpclient.NewStandardClient(c.timeout),
		Session:    c.store,
		OnUnauthorized: func(context.Context) {
			fmt.Fprintln(c.errOut, sessionExpiredMessage)
		},
	})

	c.leads = repository.NewLeadRepository(api)
	c.auth = services.NewAuthService(repository.NewAuthRepository(api), nil)
	c.form = services.NewLeadFormService(c.leads, c.phoneRegion)
	c.detail = services.NewLeadDetailService(c.leads, c.phoneRegion)
	c.analytics = services.NewAnalyticsService(c.leads)
	return nil
}

func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.timeout)
}

// describe turns validation failures into one line per field.
func describe(err error) error {
	if !apierrors.Is(err, apierrors.ErrInvalidInput) {
		return err
	}
	fields := handlers.ParseValidationErrors(err)
	if len(fields) == 0 {
		return err
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.Field, f.Message))
	}
	return errors.New("invalid input:\n" + strings.Join(lines, "\n"))
}
