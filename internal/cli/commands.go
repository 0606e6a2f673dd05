package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/google/subcommands"
)

// Register adds every fxctl subcommand to c.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(&completionCmd{}, "")

	c.Register(&convertCmd{}, "rates")
	c.Register(&ratesCmd{}, "rates")
	c.Register(&refreshCmd{}, "rates")

	c.Register(&balanceCmd{}, "reports")
	c.Register(&breakdownCmd{}, "reports")
}

// a CLI is short lived, global flags are fine
var (
	apiURL          = flag.String("api-url", envOr("FXCTL_API_URL", "http://localhost:8080"), "Base URL of the tracker API")
	apiToken        = flag.String("token", os.Getenv("FXCTL_TOKEN"), "Bearer token for /api/v1 calls")
	jwtSecret       = flag.String("jwt-secret", os.Getenv("FXCTL_JWT_SECRET"), "Sign per-owner tokens with this secret instead of using -token")
	jwtIssuer       = flag.String("jwt-issuer", os.Getenv("FXCTL_JWT_ISSUER"), "Issuer claim for tokens signed with -jwt-secret")
	schedulerSecret = flag.String("scheduler-secret", os.Getenv("FXCTL_SCHEDULER_SECRET"), "Shared secret for /internal job calls")
	timeout         = flag.Duration("timeout", 30*time.Second, "HTTP request timeout")
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient() *Client {
	c := NewClient(*apiURL, *timeout)
	c.SchedulerSecret = *schedulerSecret
	return c
}

// tokenFor returns the bearer token to act as owner. An empty owner means the -token flag.
func tokenFor(owner string) (string, error) {
	if owner == "" {
		if *apiToken == "" {
			return "", errors.New("no -token given")
		}
		return *apiToken, nil
	}
	if *jwtSecret == "" {
		return "", fmt.Errorf("acting as %q requires -jwt-secret", owner)
	}
	return MintToken(*jwtSecret, *jwtIssuer, owner, 5*time.Minute)
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

type convertCmd struct {
	date string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount between two currencies" }
func (*convertCmd) Usage() string {
	return `fxctl convert [-d <date>] <amount> <from> <to>

  Converts amount using the rate in effect on date (today by default).
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the rate, YYYY-MM-DD")
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	token, err := tokenFor("")
	if err != nil {
		return fail("Error: %v", err)
	}
	res, err := newClient().Convert(ctx, token, f.Arg(0), strings.ToUpper(f.Arg(1)), strings.ToUpper(f.Arg(2)), c.date)
	if err != nil {
		return fail("Error converting: %v", err)
	}
	var b strings.Builder
	RenderConversion(&b, res)
	printMarkdown(os.Stdout, b.String())
	return subcommands.ExitSuccess
}

type ratesCmd struct {
	from, to string
	limit    int
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "list stored exchange rates" }
func (*ratesCmd) Usage() string {
	return `fxctl rates [-from <code>] [-to <code>] [-n <limit>]

  Lists stored rates, newest first.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source currency filter")
	f.StringVar(&c.to, "to", "", "Target currency filter")
	f.IntVar(&c.limit, "n", 50, "Maximum number of rates")
}

func (c *ratesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	token, err := tokenFor("")
	if err != nil {
		return fail("Error: %v", err)
	}
	res, err := newClient().Rates(ctx, token, strings.ToUpper(c.from), strings.ToUpper(c.to), c.limit)
	if err != nil {
		return fail("Error listing rates: %v", err)
	}
	var b strings.Builder
	RenderRates(&b, res)
	printMarkdown(os.Stdout, b.String())
	return subcommands.ExitSuccess
}

type refreshCmd struct {
	last bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "run the exchange rate refresh job" }
func (*refreshCmd) Usage() string {
	return `fxctl refresh [-last]

  Triggers a refresh of today's rates from the configured provider, or shows
  the most recent run with -last. Requires -scheduler-secret.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.last, "last", false, "Show the last run instead of starting one")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client := newClient()
	var (
		res *dto.RefreshRunResponse
		err error
	)
	if c.last {
		res, err = client.LastRefresh(ctx)
	} else {
		res, err = client.Refresh(ctx)
	}
	if res != nil {
		var b strings.Builder
		RenderRefresh(&b, res)
		printMarkdown(os.Stdout, b.String())
	}
	if err != nil {
		return fail("Error refreshing rates: %v", err)
	}
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	currency string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show total balances across payment instruments" }
func (*balanceCmd) Usage() string {
	return `fxctl balance [-c <currency>] [<owner>...]

  Shows the balance of the -token owner, or of each listed owner when
  -jwt-secret is set.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Reporting currency, defaults to the owner's preference")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	owners := f.Args()
	if len(owners) == 0 {
		owners = []string{""}
	}
	results := fetchBalances(ctx, newClient(), owners, tokenFor, strings.ToUpper(c.currency))

	status := subcommands.ExitSuccess
	var b strings.Builder
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "Error reading balance of %q: %v\n", r.owner, r.err)
			status = subcommands.ExitFailure
			continue
		}
		RenderBalance(&b, r.owner, r.res)
		b.WriteString("\n")
	}
	if b.Len() > 0 {
		printMarkdown(os.Stdout, b.String())
	}
	return status
}

type ownerBalance struct {
	owner string
	res   *dto.BalanceResponse
	err   error
}

// fetchBalances queries every owner concurrently. Results keep the order of owners.
func fetchBalances(ctx context.Context, client *Client, owners []string, token func(string) (string, error), reportingCurrency string) []ownerBalance {
	results := make([]ownerBalance, len(owners))
	var wg sync.WaitGroup
	for i, owner := range owners {
		wg.Add(1)
		go func(i int, owner string) {
			defer wg.Done()
			results[i].owner = owner
			t, err := token(owner)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].res, results[i].err = client.Balance(ctx, t, reportingCurrency)
		}(i, owner)
	}
	wg.Wait()
	return results
}

type breakdownCmd struct{}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "show a budget's spend per payment instrument" }
func (*breakdownCmd) Usage() string {
	return `fxctl breakdown <budgetID>
`
}

func (*breakdownCmd) SetFlags(*flag.FlagSet) {}

func (*breakdownCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	token, err := tokenFor("")
	if err != nil {
		return fail("Error: %v", err)
	}
	res, err := newClient().Breakdown(ctx, token, f.Arg(0))
	if err != nil {
		return fail("Error reading breakdown: %v", err)
	}
	var b strings.Builder
	RenderBreakdown(&b, res)
	printMarkdown(os.Stdout, b.String())
	return subcommands.ExitSuccess
}
