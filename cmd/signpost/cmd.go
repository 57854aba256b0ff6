package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xy-planning-network/signpost/manifest"
	"github.com/xy-planning-network/signpost/route"
	"github.com/xy-planning-network/signpost/server"
)

// flags shared by every command.
type flags struct {
	addr       string
	manifest   string
	pages      string
	skipBroken bool
	watch      bool
}

func newRootCmd() *cobra.Command {
	f := new(flags)
	root := &cobra.Command{
		Use:          "signpost",
		Short:        "Serve the pages listed in a manifest",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&f.manifest, "manifest", "", "manifest file or redis://host:port/db?key=name (default $MANIFEST or "+server.DefaultManifest+")")
	root.PersistentFlags().StringVar(&f.pages, "pages", "", "page scripts directory (default $PAGES_DIR or "+server.DefaultPagesDir+")")
	root.PersistentFlags().BoolVar(&f.skipBroken, "skip-broken", false, "skip pages that fail to load instead of failing")

	root.AddCommand(newServeCmd(f), newCheckCmd(f), newRoutesCmd(f))

	return root
}

func newServeCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Bind every page, then serve them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newServer(cmd, f)
			if err != nil {
				return err
			}

			return s.Guide()
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", "", "address to listen on (default $PORT or "+server.DefaultPort+")")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "rebuild routes when the manifest or page scripts change")

	return cmd
}

func newCheckCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Read the manifest and bind every page without serving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := build(cmd, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, skip := range res.Skipped {
				fmt.Fprintf(out, "skipped %s: %s\n", skip.Descriptor, skip.Err)
			}

			fmt.Fprintf(out, "ok: %d pages bound\n", len(res.Table.Pages()))

			return nil
		},
	}
}

func newRoutesCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := build(cmd, f)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tMODULE\tNAME")
			for _, e := range res.Table.Entries() {
				module := e.Module
				if e.Builtin {
					module = "(built-in)"
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Path, module, e.Name)
			}

			return tw.Flush()
		},
	}
}

// build binds the manifest's pages without listening.
func build(cmd *cobra.Command, f *flags) (route.Result, error) {
	s, err := newServer(cmd, f)
	if err != nil {
		return route.Result{}, err
	}

	return s.Build(cmd.Context())
}

// newServer configures a *server.Server from the flags set, leaving the rest to the environment.
func newServer(cmd *cobra.Command, f *flags) (*server.Server, error) {
	opts := []server.Option{server.WithContext(cmd.Context())}

	if cmd.Flags().Changed("manifest") {
		src, err := manifest.ParseSource(f.manifest)
		if err != nil {
			return nil, err
		}

		opts = append(opts, server.WithManifest(src))
	}

	if cmd.Flags().Changed("pages") {
		opts = append(opts, server.WithPagesDir(f.pages))
	}

	if cmd.Flags().Changed("addr") {
		opts = append(opts, server.WithAddr(f.addr))
	}

	if cmd.Flags().Changed("watch") {
		opts = append(opts, server.WithWatch(f.watch))
	}

	if cmd.Flags().Changed("skip-broken") {
		policy := route.FailFast
		if f.skipBroken {
			policy = route.SkipAndWarn
		}

		opts = append(opts, server.WithPolicy(policy))
	}

	return server.New(opts...)
}
