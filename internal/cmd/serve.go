package cmd

import (
	"fmt"
	"net/http"

	gorillarpc "github.com/gorilla/rpc"
	"github.com/gorilla/rpc/json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wafer-lang/waferc/internal/cache"
	"github.com/wafer-lang/waferc/internal/compiler"
	"github.com/wafer-lang/waferc/internal/telemetry"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose compiler.Compile over a local JSON-RPC endpoint",
	Long: `serve starts an HTTP server exposing a single JSON-RPC method,
Compiler.Compile, that wraps the same compiler.Compile the compile
subcommand uses. It gives the otherwise synchronous, no-I/O compiler a
network collaborator without changing its compilation semantics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "4217", "TCP port to listen on")
	rootCmd.AddCommand(serveCmd)
}

// CompileService is the JSON-RPC service registered at /rpc.
type CompileService struct {
	cache *cache.Cache
}

// CompileRequest is the JSON-RPC request body for Compiler.Compile.
type CompileRequest struct {
	Source string `json:"source"`
}

// CompileResponse is the JSON-RPC response body for Compiler.Compile.
type CompileResponse struct {
	ModuleBytes []byte `json:"module_bytes"`
}

// Compile compiles req.Source and returns the resulting module bytes, or
// an error derived from a *compiler.CompileError panic.
func (s *CompileService) Compile(r *http.Request, req *CompileRequest, resp *CompileResponse) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if ce, ok := rec.(*compiler.CompileError); ok {
				err = fmt.Errorf("%s: %s", ce.Stage, ce.Message)
				return
			}
			panic(rec)
		}
	}()

	if s.cache != nil {
		resp.ModuleBytes = compiler.CompileCached(s.cache, req.Source)
	} else {
		resp.ModuleBytes = compiler.Compile(req.Source)
	}
	return nil
}

func runServe() error {
	log := telemetry.Logger()

	service := &CompileService{}
	if cacheDirFlag != "" {
		c, err := cache.Open(cacheDirFlag)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		defer c.Close()
		service.cache = c
	}

	server := gorillarpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	if err := server.RegisterService(service, "Compiler"); err != nil {
		return fmt.Errorf("serve: register service: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", server)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	addr := ":" + servePort
	log.Info("waferc serve listening", zap.String("addr", addr))
	fmt.Printf("listening on %s (POST /rpc, method Compiler.Compile)\n", addr)
	return http.ListenAndServe(addr, mux)
}
