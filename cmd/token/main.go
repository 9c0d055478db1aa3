// Command token issues a signed bearer token for API access.
//
// The back office runs with a single operator principal, so tokens are
// minted out of band with this tool rather than through a login endpoint.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fueltrade/backend/internal/infrastructure/auth"
	"github.com/fueltrade/backend/internal/infrastructure/config"
)

func main() {
	var principal string
	flag.StringVar(&principal, "principal", "back-office", "Principal name embedded in the token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	tokenService := auth.NewTokenService(cfg.JWT)
	issued, err := tokenService.Issue(principal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Principal:  %s\n", principal)
	fmt.Printf("Expires at: %s\n", issued.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Token type: %s\n", issued.TokenType)
	fmt.Println()
	fmt.Println(issued.Token)
}
