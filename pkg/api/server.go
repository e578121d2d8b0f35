package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Server は http.Server をラップしたものです。
type Server struct {
	httpServer *http.Server
}

// NewServer はタイムアウトを設定した Server を生成します。
// 画像生成には時間がかかるため WriteTimeout は長めに取ります。
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      120 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start はリクエストの受け付けを開始します。Shutdown による停止ではエラーを返しません。
func (s *Server) Start() error {
	slog.Info("サーバーを起動します", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown は処理中のリクエストを待ってから停止します。
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
