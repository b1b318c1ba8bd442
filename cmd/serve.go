package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve player reports over HTTP",
	Long: `Start an HTTP server exposing the report API:

  GET /health
  GET /v1/player/{steamid64}/summary-advanced?range=&queue=&deepLimit=&parse=
  GET /v1/resolve?input=<id or name>`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":3001", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	client := newClient()
	srv := httpapi.New(newService(client), client)

	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	fmt.Printf("API on %s\n", serveAddr)
	return httpServer.ListenAndServe()
}
