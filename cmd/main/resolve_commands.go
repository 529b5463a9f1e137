package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"library/router/internal/client"
	"library/router/internal/dispatch"
	"library/router/internal/domain"
	"library/router/internal/embed"
	"library/router/internal/routing"

	jsoniter "github.com/json-iterator/go"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var embedded, remote bool

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Print the address a path resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr *domain.ResolvedAddress
			if remote {
				routerClient, err := ctx.routerClient(cmd.Context())
				if err != nil {
					return err
				}
				if addr, err = routerClient.Resolve(cmd.Context(), args[0], embedded); err != nil {
					return err
				}
			} else {
				resolved := routing.NewResolver(embed.Static(embedded)).ResolvePath(args[0])
				addr = &resolved
			}
			return printJSON(cmd.OutOrStdout(), addr)
		},
	}

	cmd.Flags().BoolVar(&embedded, "embedded", false, "Resolve as if inside an embedding frame")
	cmd.Flags().BoolVar(&remote, "remote", false, "Ask a running router instead of resolving locally")
	return cmd
}

func newTargetCommand(ctx *commandContext) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "target <current> <target>",
		Short: "Print the URL for navigating from current to target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := routing.NewBuilder(nil).BuildURL(args[0], args[1])
			if remote {
				routerClient, err := ctx.routerClient(cmd.Context())
				if err != nil {
					return err
				}
				if url, err = routerClient.TargetURL(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), url)
			return err
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Ask a running router instead of building locally")
	return cmd
}

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the dispatch table in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"#", "Pattern", "Kind", "Target", "Top level"})
			for i, route := range dispatch.DefaultTable().Routes() {
				topLevel := ""
				if route.RequiresTopLevel {
					topLevel = "yes"
				}
				tw.AppendRow(table.Row{i + 1, route.Pattern.String(), route.Kind.String(), route.Target(), topLevel})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return err
		},
	}
}

func (c *commandContext) routerClient(ctx context.Context) (client.RouterClient, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	endpoints, err := client.NewEndpointSupplier(ctx, cfg.Client.BaseURLs)
	if err != nil {
		return nil, err
	}
	return client.NewRouterClient(cfg.Client, endpoints), nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimSpace(string(data)))
	return err
}
