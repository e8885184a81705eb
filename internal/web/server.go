package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avoverin/coindash/internal/domain"
)

const streamPollInterval = 2 * time.Second

// SummaryReader exposes the latest valuation of one account.
type SummaryReader interface {
	Account() string
	Platform() string
	Latest() (domain.PortfolioValuation, bool)
}

type valuationReader interface {
	ValuationsAfter(index uint64) ([]domain.ValuationRecord, error)
}

// Server exposes the dashboard page, the account summary API and an
// SSE stream of valuation snapshots.
type Server struct {
	Addr      string
	Summaries []SummaryReader
	Store     valuationReader

	logger *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, summaries []SummaryReader, store valuationReader, logger *zap.Logger) *Server {
	return &Server{Addr: addr, Summaries: summaries, Store: store, logger: logger}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/accounts", s.handleAccounts)
	mux.HandleFunc("/api/accounts/", s.handleSummary)
	mux.HandleFunc("/valuations/stream", s.handleValuationStream)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

type accountInfo struct {
	Label    string `json:"label"`
	Platform string `json:"platform"`
}

func (s *Server) handleAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts := make([]accountInfo, 0, len(s.Summaries))
	for _, reader := range s.Summaries {
		accounts = append(accounts, accountInfo{
			Label:    reader.Account(),
			Platform: reader.Platform(),
		})
	}
	s.writeJSON(w, accounts)
}

// summaryResponse is the account summary contract: aggregate figures
// as JSON numbers, per-asset decimals as strings.
type summaryResponse struct {
	Account        string               `json:"account"`
	Platform       string               `json:"platform"`
	Timestamp      time.Time            `json:"ts"`
	TotalValue     float64              `json:"totalValue"`
	AvailableValue float64              `json:"availableValue"`
	FrozenValue    float64              `json:"frozenValue"`
	PerAsset       []domain.ValuedAsset `json:"perAsset"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	label = strings.TrimSuffix(label, "/summary")
	if label == "" || strings.Contains(label, "/") {
		http.NotFound(w, r)
		return
	}

	for _, reader := range s.Summaries {
		if reader.Account() != label {
			continue
		}

		valuation, ok := reader.Latest()
		if !ok {
			http.Error(w, "no valuation yet", http.StatusServiceUnavailable)
			return
		}

		perAsset := valuation.PerAsset
		if perAsset == nil {
			perAsset = []domain.ValuedAsset{}
		}
		s.writeJSON(w, summaryResponse{
			Account:        valuation.Account,
			Platform:       valuation.Platform,
			Timestamp:      valuation.Timestamp,
			TotalValue:     valuation.TotalValue.InexactFloat64(),
			AvailableValue: valuation.AvailableValue.InexactFloat64(),
			FrozenValue:    valuation.FrozenValue.InexactFloat64(),
			PerAsset:       perAsset,
		})
		return
	}

	http.NotFound(w, r)
}

func (s *Server) handleValuationStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "valuation store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// comment heartbeat every 30s so proxies keep the connection open
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendValuations := func() error {
		records, err := s.Store.ValuationsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Valuation)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: valuation\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendValuations(); err != nil {
		http.Error(w, "failed to load valuations", http.StatusInternalServerError)
		s.logger.Error("valuation stream initial load failed", zap.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendValuations(); err != nil {
				s.logger.Error("valuation stream poll failed", zap.Error(err))
			}
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
