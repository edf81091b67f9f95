package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"main/internal/executor"
	"main/internal/ingest/hyperliquid"
	"main/internal/ops"
)

// diagnose checks the local setup before a live chase run: credentials,
// signer sidecar, REST reachability, and account state on the selected
// network.
func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	network := "mainnet"
	if loaded.Testnet {
		network = "testnet"
	}
	fmt.Printf("network:   %s\n", network)
	fmt.Printf("coin:      %s\n", loaded.Coin)
	fmt.Printf("ws uri:    %s\n", hyperliquid.Endpoint(loaded.Testnet))

	pass := true
	pass = check("ADDRESS set", loaded.Address != "") && pass
	pass = check("ADDRESS well-formed", strings.HasPrefix(loaded.Address, "0x") && len(loaded.Address) == 42) && pass

	signerURL := os.Getenv("SIGNER_URL")
	pass = check("SIGNER_URL set", signerURL != "") && pass
	if !pass {
		fmt.Println("\nresult: FAIL (fix the credentials above, then rerun)")
		os.Exit(1)
	}

	signer, err := executor.NewRemoteSigner(signerURL, nil)
	if err != nil {
		log.Fatalf("signer init failed: %v", err)
	}
	client, err := executor.NewClient(executor.Config{
		Testnet: loaded.Testnet,
		Address: loaded.Address,
		Coin:    loaded.Coin,
		Asset:   loaded.Asset,
		Signer:  signer,
	})
	if err != nil {
		log.Fatalf("client init failed: %v", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	mids, err := client.AllMids(reqCtx)
	pass = check("REST endpoint reachable", err == nil) && pass
	if err == nil {
		if mid, ok := mids[loaded.Coin]; ok {
			fmt.Printf("           %s mid price: %s\n", loaded.Coin, mid)
		}
		pass = check("coin listed on venue", mids[loaded.Coin] != "") && pass
	}

	if err == nil {
		exists, verr := client.ValidateAccount(reqCtx)
		pass = check("account exists on network", verr == nil && exists) && pass
		if verr == nil && !exists {
			fmt.Println("           fix: do one trade in the venue UI with this wallet")
		}
	}

	if pass {
		fmt.Println("\nresult: PASS")
		return
	}
	fmt.Println("\nresult: FAIL")
	os.Exit(1)
}

func check(name string, ok bool) bool {
	mark := "ok"
	if !ok {
		mark = "FAIL"
	}
	fmt.Printf("[%-4s] %s\n", mark, name)
	return ok
}
