package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/code-yaar/assistant-gateway/internal/auth"
)

// tokengen mints a development bearer token for exercising the gateway
// locally. Production tokens come from the identity provider.
func main() {
	user := flag.String("user", "", "user ID to embed in the token (required)")
	email := flag.String("email", "", "user email (optional)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", "", "signing secret (overrides JWT_SECRET)")
	flag.Parse()

	godotenv.Load()

	if *user == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "\nerror: -user is required")
		os.Exit(1)
	}

	key := *secret
	if key == "" {
		key = os.Getenv("JWT_SECRET")
	}
	if key == "" {
		log.Fatal("no signing secret: pass -secret or set JWT_SECRET")
	}

	token, err := auth.MintToken(key, *user, *email, *ttl)
	if err != nil {
		log.Fatalf("failed to mint token: %v", err)
	}

	fmt.Println("=== Code-Yaar Dev Token ===")
	fmt.Println()
	fmt.Printf("  User:    %s\n", *user)
	if *email != "" {
		fmt.Printf("  Email:   %s\n", *email)
	}
	fmt.Printf("  Expires: %s\n", time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println()
	fmt.Printf("  %s\n", token)
	fmt.Println()
	fmt.Println("===========================")
}
