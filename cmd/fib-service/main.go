package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MartinCastroAlvarez/zk-proof/circuits"
	"github.com/MartinCastroAlvarez/zk-proof/execution"
	"github.com/MartinCastroAlvarez/zk-proof/proving"
	"github.com/MartinCastroAlvarez/zk-proof/proving/storage"
	api "github.com/MartinCastroAlvarez/zk-proof/rpc"
	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const Version = "v0.0.1"

func main() {
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelInfo, true)))
	gnarklogger.Set(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger())

	app := cli.NewApp()
	app.Flags = Flags
	app.Version = Version
	app.Name = "fib-service"
	app.Description = "Proving service for Fibonacci guest executions"

	app.Action = curryMain(Version)
	err := app.Run(os.Args)
	if err != nil {
		log.Crit("Application failed", "error", err)
	}
}

func curryMain(version string) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		return Main(version, ctx)
	}
}

func runServer(handler http.Handler, portAddr string) *http.Server {
	serv := &http.Server{Addr: portAddr, Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/_health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		handler.ServeHTTP(w, r)
	})}
	log.Info("Starting HTTP server", "address", portAddr)
	go func() {
		err := serv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return serv
}

func newStorage(cliCtx *cli.Context) (storage.Storage, error) {
	if bucket := cliCtx.String(S3BucketFlag.Name); bucket != "" {
		log.Info("Using S3 storage", "bucket", bucket)
		return storage.NewS3Storage(bucket)
	}
	path, err := filepath.Abs(cliCtx.String(DataDirFlag.Name))
	if err != nil {
		return nil, err
	}
	log.Info("Using local storage", "path", path)
	return storage.NewFileStorage(path), nil
}

func Main(version string, cliCtx *cli.Context) error {
	log.Info("Starting fib-service", "version", version)
	store, err := newStorage(cliCtx)
	if err != nil {
		return err
	}

	manager := proving.NewSetupManager(store)
	compiled, err := manager.LoadOrCreate("fib", &circuits.FibonacciCircuit{})
	if err != nil {
		return err
	}

	var expected common.Hash
	if override := cliCtx.String(ImageIdFlag.Name); override != "" {
		if expected, err = execution.ParseImageID(override); err != nil {
			return err
		}
	}
	prover := execution.NewProver(compiled, expected, int64(cliCtx.Int(MaxProvingJobsFlag.Name)))
	log.Info("Guest image ready", "imageId", prover.ImageID(), "fingerprint", compiled.Fingerprint)

	service := api.NewFibService(prover)
	server := runServer(service.Handler(), fmt.Sprintf(":%d", cliCtx.Int(PortFlag.Name)))

	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, os.Interrupt, os.Kill, syscall.SIGTERM, syscall.SIGQUIT)
	<-interruptChannel

	return server.Shutdown(context.Background())
}
