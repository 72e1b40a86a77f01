package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adeqintegrated/adeqsite/app/routes"
	"github.com/adeqintegrated/adeqsite/app/services"
	"github.com/adeqintegrated/adeqsite/config"
	"github.com/adeqintegrated/adeqsite/internal/server"
	"github.com/adeqintegrated/adeqsite/pkg/router"
	"github.com/adeqintegrated/adeqsite/pkg/storage"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adeqsite",
	Short: "ADEQ Water Solutions site backend",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(contentInitCmd)
}

// adeqsite serve starts the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// adeqsite route:list prints all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		storage.Connect()

		r := router.New()
		routes.RegisterAPI(r)

		infos := r.Routes()
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

// adeqsite content:init seeds default CMS documents for missing keys.
var contentInitCmd = &cobra.Command{
	Use:   "content:init",
	Short: "Write default content documents for any missing section",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		storage.Connect()

		svc := services.NewContentServiceWith(storage.Default())
		if err := svc.Seed(); err != nil {
			return err
		}
		fmt.Println("Content documents are in place.")
		return nil
	},
}
