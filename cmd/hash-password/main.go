package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/argentum-atelier/storefront-backend/pkg/config"
	"github.com/argentum-atelier/storefront-backend/pkg/security"
)

// hash-password produces an Argon2id hash suitable for
// ARGENTUM_ADMIN_PASSWORD_HASH.
func main() {
	password := flag.String("password", "", "password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "missing -password")
		os.Exit(1)
	}

	_ = godotenv.Load()

	var passwordCfg config.PasswordConfig
	if cfg, err := config.Load(); err == nil {
		passwordCfg = cfg.Password
	} else {
		passwordCfg = config.PasswordConfig{
			ArgonMemoryKB:    65536,
			ArgonTime:        3,
			ArgonParallelism: 2,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		}
	}

	hash, err := security.HashPassword(*password, passwordCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
