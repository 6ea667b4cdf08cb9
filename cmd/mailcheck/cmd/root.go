package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/synqronlabs/mailcheck"
)

var (
	cfgFile   string
	server    string
	flavorArg string
	selector  string
	sub       bool
	subOnly   bool
	formatArg string
	output    string
	outdir    string
	timeout   time.Duration
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "mailcheck [identifier ...]",
	Short: "Inspect the DNS records that matter for mail: A, MX, NS, SPF, DMARC and DKIM",
	Long: `mailcheck resolves mail-related DNS records for one or more domains,
email addresses or URLs. Identifiers are read from the arguments, or line
by line from stdin when piped.

Records are printed as a table by default; use --format and --output (or
--outdir for an auto-named file) to export CSV, JSON or MessagePack.`,
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.mailcheck.yaml)")
	flags.StringVarP(&server, "server", "s", mailcheck.DefaultServer, "DNS server to query (IPv4 literal)")
	flags.StringVarP(&flavorArg, "type", "t", "txt", "record-type flavor: txt, cname or both")
	flags.StringVar(&selector, "selector", "", "DKIM selector (default: probe well-known selectors)")
	flags.BoolVar(&sub, "sub", false, "also check the full host when the identifier has subdomains")
	flags.BoolVar(&subOnly, "sub-only", false, "check only the full host, not the registrable domain")
	flags.StringVarP(&formatArg, "format", "f", "table", "output format: table, csv, json or msgpack")
	flags.StringVarP(&output, "output", "o", "", "write exported output to this file instead of stdout")
	flags.StringVar(&outdir, "outdir", "", "write exported output to an auto-named file in this directory")
	flags.DurationVar(&timeout, "timeout", 5*time.Second, "per-query timeout")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")

	viper.BindPFlag("server", flags.Lookup("server"))
	viper.BindPFlag("type", flags.Lookup("type"))
	viper.BindPFlag("format", flags.Lookup("format"))
	viper.BindPFlag("timeout", flags.Lookup("timeout"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".mailcheck")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("mailcheck")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && debug {
		fmt.Fprintf(os.Stderr, "using config file: %s\n", viper.ConfigFileUsed())
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	identifiers := args
	if len(identifiers) == 0 {
		identifiers = stdinIdentifiers()
	}
	if len(identifiers) == 0 {
		return fmt.Errorf("no identifiers given (pass arguments or pipe them on stdin)")
	}

	flavor, err := mailcheck.ParseFlavor(viper.GetString("type"))
	if err != nil {
		return err
	}

	checker, err := mailcheck.New(mailcheck.Config{
		Server:  viper.GetString("server"),
		Timeout: viper.GetDuration("timeout"),
		Logger:  logger,
	})
	if err != nil {
		// Fatal precondition: no query can ever succeed.
		return err
	}

	ctx := context.Background()

	// Batch processing: one identifier failing does not abort the rest.
	var records []mailcheck.Record
	for _, identifier := range identifiers {
		recs, err := checker.Check(ctx, mailcheck.Request{
			Identifier:    identifier,
			Subdomains:    sub,
			SubdomainOnly: subOnly,
			Selector:      selector,
			Flavor:        flavor,
		})
		if err != nil {
			logger.Error("skipping identifier", "identifier", identifier, "error", err)
			continue
		}
		records = append(records, recs...)
	}

	if len(records) == 0 {
		return fmt.Errorf("no results")
	}

	return emit(records)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// stdinIdentifiers reads identifiers line by line from piped stdin.
func stdinIdentifiers() []string {
	fi, err := os.Stdin.Stat()
	if err != nil || fi.Mode()&os.ModeCharDevice != 0 {
		return nil
	}

	var identifiers []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			identifiers = append(identifiers, line)
		}
	}
	return identifiers
}

func emit(records []mailcheck.Record) error {
	name := viper.GetString("format")
	if name == "table" || name == "" {
		fmt.Println(renderTable(records))
		return nil
	}

	format, err := mailcheck.ParseFormat(name)
	if err != nil {
		return err
	}

	switch {
	case outdir != "":
		path, err := mailcheck.ExportFile(outdir, format, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		return nil
	case output != "":
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("%w: %v", mailcheck.ErrExportWrite, err)
		}
		defer f.Close()
		return mailcheck.Write(f, format, records)
	default:
		return mailcheck.Write(os.Stdout, format, records)
	}
}

func renderTable(records []mailcheck.Record) string {
	yes := color.GreenString("yes")
	no := color.RedString("no")
	absent := color.RedString("-")

	lines := []string{"DOMAIN | TYPE | A | MX | NS | SPF | DMARC | DKIM | SELECTOR"}
	for _, r := range records {
		a := no
		if r.HasA {
			a = yes
		}

		dkim, sel := absent, r.DKIM.Selector
		switch r.DKIM.Status {
		case mailcheck.DKIMFound:
			dkim = clip(r.DKIM.Value)
		case mailcheck.DKIMNotFound:
			dkim = color.RedString("not found")
		case mailcheck.DKIMNotFoundAfterProbe:
			dkim = color.RedString("no selector matched")
			sel = "-"
		}
		if sel == "" {
			sel = "-"
		}

		lines = append(lines, strings.Join([]string{
			r.Domain,
			string(r.RecordType),
			a,
			orAbsent(clip(r.MX), absent),
			orAbsent(clip(r.NS), absent),
			orAbsent(clip(r.SPF), absent),
			orAbsent(clip(r.DMARC), absent),
			dkim,
			sel,
		}, " | "))
	}

	return columnize.SimpleFormat(lines)
}

func orAbsent(s, absent string) string {
	if s == "" {
		return absent
	}
	return s
}

// clip keeps table rows readable; exports carry the full values.
func clip(s string) string {
	const max = 48
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
