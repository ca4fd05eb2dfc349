package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"hodolog/app/config"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Server {
	return &config.Server{
		Host:            "127.0.0.1",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestServerGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		// Simulate work.
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	log, hook := test.NewNullLogger()
	srv := New(testConfig(), handler, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	// Start a request, then cancel while it is in flight.
	resCh := make(chan int, 1)
	go func() {
		res, err := http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
		if err != nil {
			resCh <- 0
			return
		}
		res.Body.Close()
		resCh <- res.StatusCode
	}()

	<-started
	cancel()

	assert.Equal(t, http.StatusOK, <-resCh)
	require.NoError(t, <-done)
	assert.Equal(t, "server stopped", hook.LastEntry().Message)
}

func TestServerRunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig()
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	log, _ := test.NewNullLogger()
	err = New(cfg, http.NotFoundHandler(), log).Run(context.Background())
	assert.Error(t, err)
}

func TestServerRun(t *testing.T) {
	cfg := testConfig()
	log, hook := test.NewNullLogger()
	srv := New(cfg, http.NotFoundHandler(), log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if e.Message == "server started" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
