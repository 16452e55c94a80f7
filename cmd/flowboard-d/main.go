package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/flowboard-io/flowboard/pkg/api"
	"github.com/flowboard-io/flowboard/pkg/catalog"
	"github.com/flowboard-io/flowboard/pkg/files"
	"github.com/flowboard-io/flowboard/pkg/store"
	redisstore "github.com/flowboard-io/flowboard/pkg/store/redis"
)

func main() {
	fmt.Println(`{"level":"info","msg":"system_started","component":"flowboard-d"}`)

	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Printf(`{"level":"fatal","msg":"invalid_config","error":"%v"}`+"\n", err)
		os.Exit(1)
	}

	var workflows api.WorkflowStoreInterface
	var closeStore func() error

	switch cfg.StoreBackend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			fmt.Printf(`{"level":"fatal","msg":"failed_to_connect_redis","addr":"%s","error":"%v"}`+"\n", cfg.RedisAddr, err)
			os.Exit(1)
		}
		workflows = redisstore.NewWorkflowStore(client)
		closeStore = client.Close
		fmt.Printf(`{"level":"info","msg":"store_initialized","backend":"redis","addr":"%s"}`+"\n", cfg.RedisAddr)
	default:
		st, err := store.NewStore(cfg.DBPath)
		if err != nil {
			fmt.Printf(`{"level":"fatal","msg":"failed_to_init_store","error":"%v"}`+"\n", err)
			os.Exit(1)
		}
		workflows = st
		closeStore = st.Close
		fmt.Printf(`{"level":"info","msg":"store_initialized","backend":"sqlite","path":"%s"}`+"\n", cfg.DBPath)
	}

	uploads, err := files.NewStore(cfg.UploadDir)
	if err != nil {
		fmt.Printf(`{"level":"fatal","msg":"failed_to_init_upload_store","error":"%v"}`+"\n", err)
		os.Exit(1)
	}
	fmt.Printf(`{"level":"info","msg":"upload_store_initialized","dir":"%s"}`+"\n", cfg.UploadDir)

	server := api.NewServer(workflows, catalog.New(), uploads, cfg.Addr)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		fmt.Printf(`{"level":"info","msg":"shutdown_initiated","signal":"%s"}`+"\n", sig)
	case err := <-serverErr:
		if err != nil {
			fmt.Printf(`{"level":"fatal","msg":"server_failed","error":"%v"}`+"\n", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_stop_server","error":"%v"}`+"\n", err)
	}

	if err := closeStore(); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_close_store","error":"%v"}`+"\n", err)
	} else {
		fmt.Println(`{"level":"info","msg":"store_closed"}`)
	}

	fmt.Println(`{"level":"info","msg":"shutdown_complete"}`)
}
