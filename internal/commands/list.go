package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/five82/subdeck/internal/api"
	"github.com/five82/subdeck/internal/config"
	"github.com/five82/subdeck/internal/subscriber"
)

type listOptions struct {
	Search  string
	JSON    bool
	APIBind string
}

func addList(topLevel *cobra.Command, ro *rootOptions) {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the subscriber collection once and exit.",
		Example: `
subdeck list
subdeck list --search 5550
subdeck list --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(ro.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			bind := cfg.APIBind
			if lo.APIBind != "" {
				bind = lo.APIBind
			}
			client, err := api.NewClient(bind, cfg.APIToken)
			if err != nil {
				return fmt.Errorf("init api client: %w", err)
			}

			subs, err := client.ListSubscribers(cmd.Context())
			if err != nil {
				return fmt.Errorf("list subscribers: %w", err)
			}
			subs = subscriber.Filter(sortSubscribers(subs), lo.Search, "")

			if lo.JSON {
				return printJSON(cmd.OutOrStdout(), subs)
			}
			printTable(cmd.OutOrStdout(), subs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&lo.Search, "search", "s", "", "only show subscribers whose IMSI or MSISDN contains this text")
	cmd.Flags().BoolVar(&lo.JSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&lo.APIBind, "api", "", "backend address, overrides api_bind")

	topLevel.AddCommand(cmd)
}

func sortSubscribers(subs []subscriber.Subscriber) []subscriber.Subscriber {
	snap := subscriber.Snapshot{Data: make(map[string]subscriber.Subscriber, len(subs))}
	for _, sub := range subs {
		snap.Data[sub.IMSI] = sub
	}
	return snap.Sorted()
}

func printJSON(w io.Writer, subs []subscriber.Subscriber) error {
	if subs == nil {
		subs = []subscriber.Subscriber{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(subs)
}

func printTable(w io.Writer, subs []subscriber.Subscriber) {
	if len(subs) == 0 {
		_, _ = fmt.Fprintln(w, color.New(color.Faint).Sprint("no subscribers"))
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold("IMSI"), bold("MSISDN"), bold("AMF"), bold("DOWNLINK"), bold("UPLINK"))
	for _, sub := range subs {
		msisdn := strings.Join(sub.MSISDN, ",")
		if msisdn == "" {
			msisdn = "-"
		}
		tbl.AddRow(
			color.CyanString(sub.IMSI),
			msisdn,
			sub.Security.AMF,
			sub.AMBR.Downlink.String(),
			sub.AMBR.Uplink.String(),
		)
	}
	_, _ = fmt.Fprintln(w, tbl)
}
