package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contentservice/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()
	return addr
}

func waitHealthy(t *testing.T, base string) {
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRunServer(t *testing.T) {
	for _, driver := range []string{config.DriverBadger, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &config.Config{
				Addr: freeAddr(t),
				DB: config.DBConfig{
					Driver:     driver,
					BadgerPath: filepath.Join(dir, "badger"),
					SQLitePath: filepath.Join(dir, "posts.db"),
				},
				KafkaTopic: "posts.events",
			}

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- runServer(ctx, cfg) }()

			base := "http://" + cfg.Addr
			waitHealthy(t, base)

			resp, err := http.Post(base+"/posts/", "application/json", strings.NewReader(`{"title":"Live","content":"Post"}`))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusCreated, resp.StatusCode)

			resp, err = http.Post(base+"/posts/1/like/", "application/json", nil)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			cancel()
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(15 * time.Second):
				t.Fatal("server did not shut down")
			}
		})
	}
}

func TestServeGracefulShutdown(t *testing.T) {
	addr := freeAddr(t)
	started := make(chan struct{})
	srv := &http.Server{
		Addr: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			// Simulate work.
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 10*time.Millisecond)

	var resp *http.Response
	var reqErr error
	reqDone := make(chan struct{})
	go func() {
		defer close(reqDone)
		resp, reqErr = http.Get(fmt.Sprintf("http://%s/", addr))
	}()

	<-started
	cancel()

	require.NoError(t, <-done)
	<-reqDone
	require.NoError(t, reqErr)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "in-flight request completes during shutdown")
}

func TestServeListenError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	srv := &http.Server{Addr: listener.Addr().String(), Handler: http.NotFoundHandler()}
	err = serve(context.Background(), srv)
	assert.ErrorContains(t, err, "http server")
}
