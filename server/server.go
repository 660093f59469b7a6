package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mobile-next/displaycli/devices"
	"github.com/mobile-next/displaycli/utils"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603

	// Server error: a handler failed
	ErrCodeServerError = -32000
)

const (
	errTitleParseError     = "Parse error"
	errTitleInvalidReq     = "Invalid Request"
	errTitleNotImplemented = "Not implemented"
	errTitleInvalidParams  = "Invalid params"
	errTitleServerError    = "Server error"

	errMsgParseError = "expecting jsonrpc payload"
	errMsgVersion    = "'jsonrpc' must be '2.0'"
	errMsgIDRequired = "'id' field is required"
	errMsgMethod     = "'method' is required"
	errMsgTextOnly   = "only text messages accepted for requests"
)

// Server timeouts
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 10 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 5 * time.Second
)

var okResponse = map[string]interface{}{"status": "ok"}

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// rpcError is the error member of a response
type rpcError struct {
	code    int
	message string
	data    interface{}
}

func (e *rpcError) toMap() map[string]interface{} {
	return map[string]interface{}{
		"code":    e.code,
		"message": e.message,
		"data":    e.data,
	}
}

// validateRequest checks the envelope shared by the HTTP and WebSocket transports
func validateRequest(req JSONRPCRequest) *rpcError {
	if req.JSONRPC != "2.0" {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgVersion}
	}

	if req.ID == nil {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgIDRequired}
	}

	if req.Method == "" {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgMethod}
	}

	return nil
}

// Server serves JSON-RPC over HTTP at /rpc and over WebSocket at /ws
type Server struct {
	enableCORS bool
	httpServer *http.Server

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewServer creates a server listening on addr once Start is called
func NewServer(addr string, enableCORS bool) (*Server, error) {
	addr, err := utils.NormalizeListenAddress(addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		enableCORS: enableCORS,
		shutdownCh: make(chan struct{}),
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	return s, nil
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the http handler with every route mounted
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", s.handleJSONRPC)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWebSocket(w, r)
	})

	if s.enableCORS {
		return corsMiddleware(mux)
	}

	return mux
}

// Start serves until Shutdown is called or server.shutdown is received
func (s *Server) Start() error {
	errCh := make(chan error, 1)

	go func() {
		utils.Info("Starting server on http://%s...", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.shutdownCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Shutdown asks a running server to stop, it is safe to call more than once
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		utils.Info("Server shutdown requested")
		close(s.shutdownCh)
	})
}

// StartServer runs a server on addr until it is asked to shut down
func StartServer(addr string, enableCORS bool, hooks *devices.ShutdownHook) error {
	s, err := NewServer(addr, enableCORS)
	if err != nil {
		return err
	}

	if hooks != nil {
		hooks.Register("server", func() error {
			s.Shutdown()
			return nil
		})
	}

	return s.Start()
}

// dispatch runs a validated request and returns its result or error member
func (s *Server) dispatch(requestID string, req JSONRPCRequest) (interface{}, *rpcError) {
	log := utils.WithField("requestId", requestID)
	log.Infof("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	if req.Method == methodShutdown {
		// respond first, the listener closes asynchronously
		go s.Shutdown()
		return okResponse, nil
	}

	result, err := Execute(req.Method, req.Params)
	if err == nil {
		return result, nil
	}

	var notImplemented ErrNotImplemented
	var invalidParams invalidParamsError
	switch {
	case errors.As(err, &notImplemented):
		log.Warnf("Method %s is not implemented", req.Method)
		return nil, &rpcError{ErrCodeMethodNotFound, errTitleNotImplemented, err.Error()}
	case errors.As(err, &invalidParams):
		return nil, &rpcError{ErrCodeInvalidParams, errTitleInvalidParams, err.Error()}
	default:
		log.Errorf("Error executing method %s: %v", req.Method, err)
		return nil, &rpcError{ErrCodeServerError, errTitleServerError, err.Error()}
	}
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, &rpcError{ErrCodeParseError, errTitleParseError, errMsgParseError})
		return
	}

	if rpcErr := validateRequest(req); rpcErr != nil {
		sendJSONRPCError(w, req.ID, rpcErr)
		return
	}

	result, rpcErr := s.dispatch(uuid.NewString(), req)
	if rpcErr != nil {
		sendJSONRPCError(w, req.ID, rpcErr)
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, rpcErr *rpcError) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error:   rpcErr.toMap(),
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(okResponse)
}
