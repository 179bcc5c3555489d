package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/config"
)

// Mints a bearer token for a change-capture hook calling /api/v1.
func main() {
	hookName := flag.String("hook", "", "name of the calling hook")
	ttl := flag.Duration("ttl", 0, "token lifetime, 0 for no expiry")
	flag.Parse()

	if *hookName == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Auth.HookSecret == "" {
		log.Fatal("auth.hook_secret is not set (ENGAGESYNC_AUTH_HOOK_SECRET)")
	}

	token, err := common.NewHookTokenSigner([]byte(cfg.Auth.HookSecret)).Generate(*hookName, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println(token)
}
