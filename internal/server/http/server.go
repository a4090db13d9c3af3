package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rzbill/cmdring/internal/runtime"
	"github.com/rzbill/cmdring/internal/server/http/controllers"
	commandsvc "github.com/rzbill/cmdring/internal/services/commands"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

// Server is the REST gateway over a Runtime.
type Server struct {
	rt  *runtime.Runtime
	srv *http.Server
	lis net.Listener
}

// New builds the gateway and registers every controller route.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	mux := http.NewServeMux()
	svc := commandsvc.NewWithLogger(rt, logger)
	controllers.NewControllerRegistry(rt, svc, logger).RegisterAllRoutes(mux)
	return &Server{rt: rt, srv: &http.Server{Handler: cors(mux), ReadHeaderTimeout: 10 * time.Second}}
}

// Handler returns the root handler, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close closes the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Expose-Headers", "X-Next-Offset")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
