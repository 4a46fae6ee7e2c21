package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/senpro-it/grafana-dashboard-verifier/mailer"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type GrafanaConfig struct {
	Url   string
	Token string
}
type ClickHouseConfig struct {
	Url      string
	Username string
	Password string
	Database string
}
type MailConfig struct {
	Host     string
	Username string
	Password string
	From     string
	To       string
}

type Config struct {
	Grafana    GrafanaConfig
	ClickHouse ClickHouseConfig
	Mail       MailConfig
	Query      string
	Uid        string
}

var logger = log.NewWithOptions(os.Stdout, log.Options{
	Prefix:          "",
	ReportCaller:    false,
	ReportTimestamp: true,
})
var v = viper.NewWithOptions(viper.WithLogger(slog.New(logger)))

func main() {
	// configure oops
	oops.SourceFragmentsHidden = false

	// Pull in a local .env before viper reads the environment.
	godotenv.Load()

	// Configure viper
	pflag.String("grafana.url", "", "Grafana endpoint, e.g. https://org.grafana.net/api")
	pflag.String("grafana.token", "", "Grafana service account token (Bearer)")
	pflag.String("clickhouse.url", "", "ClickHouse HTTP endpoint, e.g. http://host:8123")
	pflag.String("clickhouse.user", "default", "ClickHouse user")
	pflag.String("clickhouse.pass", "", "ClickHouse password")
	pflag.String("clickhouse.database", "default", "ClickHouse database")
	pflag.String("query", "", "Search query to find dashboards")
	pflag.String("uid", "", "Verify a single dashboard by UID")
	pflag.String("mail.host", "", "SMTP host for the failure report mail")
	pflag.String("mail.user", "", "SMTP username")
	pflag.String("mail.pass", "", "SMTP password")
	pflag.String("mail.from", "", "Report mail sender")
	pflag.String("mail.to", "", "Report mail recipient; empty disables mailing")
	pflag.BoolP("verbose", "v", false, "Enable debug logs")
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("verifier")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("gdv")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Warn("No config file found; using just ENV.")
		} else {
			err := oops.Wrap(err)
			logger.Fatal(err.Error(), "error", err)
		}
	}

	// Import the config
	config := Config{
		Grafana: GrafanaConfig{
			Url:   v.GetString("grafana.url"),
			Token: v.GetString("grafana.token"),
		},
		ClickHouse: ClickHouseConfig{
			Url:      v.GetString("clickhouse.url"),
			Username: v.GetString("clickhouse.user"),
			Password: v.GetString("clickhouse.pass"),
			Database: v.GetString("clickhouse.database"),
		},
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Username: v.GetString("mail.user"),
			Password: v.GetString("mail.pass"),
			From:     v.GetString("mail.from"),
			To:       v.GetString("mail.to"),
		},
		Query: v.GetString("query"),
		Uid:   v.GetString("uid"),
	}
	if v.GetBool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	if config.Grafana.Url == "" || config.Grafana.Token == "" {
		logger.Fatal("grafana.url and grafana.token are required")
	}
	if config.ClickHouse.Url == "" {
		logger.Fatal("clickhouse.url is required")
	}

	logger.Info("Configuration loaded!")

	// Step 0: Open Grafana
	grafana, err := MakeGrafanaClient(config.Grafana.Url, config.Grafana.Token)
	if err != nil {
		logger.Fatal(err.Error(), "error", err)
	}
	clickhouse := NewCHClient(
		config.ClickHouse.Url,
		config.ClickHouse.Username,
		config.ClickHouse.Password,
		config.ClickHouse.Database,
	)

	// Step 1: Resolve dashboards
	var uids []string
	if config.Uid != "" {
		uids = []string{config.Uid}
	} else {
		uids, err = grafana.SearchDashboards(config.Query)
		if err != nil {
			err := oops.Wrap(err)
			logger.Fatal(err.Error(), "error", err)
		}
	}
	logger.Info("Dashboards resolved.", "count", len(uids))

	// Step 2: Verify, one dashboard at a time
	verifier := NewVerifier(grafana, clickhouse)
	for _, uid := range uids {
		if err := verifier.VerifyDashboard(uid); err != nil {
			err := oops.Wrap(err)
			logger.Fatal(err.Error(), "error", err)
		}
	}

	report := verifier.Report()
	fmt.Println()
	fmt.Print(FormatReport(report))

	if config.Mail.To != "" && report.Failed > 0 {
		m := &mailer.Mailer{
			Host:     config.Mail.Host,
			Username: config.Mail.Username,
			Password: config.Mail.Password,
			From:     config.Mail.From,
		}
		if err := m.Send(config.Mail.To, "Dashboard verification failures", FormatReport(report)); err != nil {
			logger.Error("Could not send report mail", "error", err)
		}
	}

	if report.Failed > 0 {
		os.Exit(1)
	}
}
