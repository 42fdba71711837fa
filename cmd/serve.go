package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/weldcount/internal/engine"
	"github.com/sells-group/weldcount/internal/listing"
	"github.com/sells-group/weldcount/internal/specdb"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP server for count requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		mux := newServeMux()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// countRequest is the POST /count body. Listing and spec content can be
// sent inline, or as paths resolved on the server host; this endpoint is
// for trusted intranet use.
type countRequest struct {
	Listings    []string `json:"listings"`
	ListingText string   `json:"listing_text"`
	SpecTable   string   `json:"spec_table"`
	SpecSheet   string   `json:"spec_sheet"`
	SpecCSV     string   `json:"spec_csv"`
	Charset     string   `json:"charset"`
}

func newServeMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /count", func(w http.ResponseWriter, r *http.Request) {
		var req countRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if len(req.Listings) == 0 && req.ListingText == "" {
			http.Error(w, `{"error":"listings or listing_text is required"}`, http.StatusBadRequest)
			return
		}
		if req.SpecTable == "" && req.SpecCSV == "" {
			http.Error(w, `{"error":"spec_table or spec_csv is required"}`, http.StatusBadRequest)
			return
		}

		var table *specdb.Table
		var err error
		if req.SpecCSV != "" {
			table, err = specdb.LoadCSV(strings.NewReader(req.SpecCSV), "inline", specdb.CSVOptions{})
		} else {
			table, err = loadSpecTable(req.SpecTable, req.SpecSheet, 0)
		}
		if err != nil {
			zap.L().Error("serve: load spec table", zap.Error(err))
			http.Error(w, `{"error":"spec table unreadable"}`, http.StatusUnprocessableEntity)
			return
		}

		eng := engine.New(table)
		eng.Charset = charsetOrDefault(req.Charset)

		var res *engine.Result
		if req.ListingText != "" {
			br := listing.ExtractBranches(req.ListingText, "inline")
			cr := listing.ExtractComponents(req.ListingText, "inline")
			res = eng.Analyze(br.Branches, cr.Components, br.Dropped)
		} else {
			res, err = eng.RunFiles(r.Context(), req.Listings)
			if err != nil {
				zap.L().Error("serve: count failed", zap.Error(err))
				http.Error(w, `{"error":"count failed"}`, http.StatusUnprocessableEntity)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(res.Tally)
	})

	return mux
}
