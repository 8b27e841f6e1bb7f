// Command testserver runs the stub form endpoint as a separate process for
// end-to-end tests.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

func main() {
	port := flag.Int("port", 8083, "Port to listen on")
	otp := flag.String("otp", "123456", "OTP accepted for every mobile")
	flag.Parse()

	logger := logging.NewSimpleLogger("testserver", logging.LevelDebug, true)
	stub := remote.NewStubHandler(*otp, logger)

	mux := http.NewServeMux()
	mux.Handle("POST /exec", stub)
	mux.HandleFunc("GET /leads", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stub.Leads())
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("Test form endpoint starting", "addr", addr, "otp", *otp)

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Test form endpoint stopped", "error", err)
		os.Exit(1)
	}
}
