// Package main mints a signed access token for local testing of the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"contractor/internal/config"
	"contractor/internal/domain/auth"
	"contractor/pkg/logger"
)

func main() {
	userID := flag.String("user", "dev", "subject (user id) of the token")
	email := flag.String("email", "dev@localhost", "email claim")
	roles := flag.String("roles", "CONTRACTOR_SUPERUSER", "comma-separated role list")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to JWT_TTL")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "warn", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	lifetime := cfg.JWT.TTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	svc := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: lifetime,
	})

	token, expiresAt, err := svc.GenerateAccessToken(*userID, *email, splitRoles(*roles))
	if err != nil {
		log.Fatalw("failed to sign token", "error", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
}

func splitRoles(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
