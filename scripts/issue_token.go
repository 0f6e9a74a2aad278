package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/vibecut/autoeditor/pkg/config"
	pkgjwt "github.com/vibecut/autoeditor/pkg/jwt"
)

// issue_token mints an access token for manual API testing:
//
//	go run ./scripts/issue_token.go -role admin
func main() {
	role := flag.String("role", "user", "role claim for the token")
	rawID := flag.String("user-id", "", "user id claim, a fresh uuid when empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	userID := uuid.New()
	if *rawID != "" {
		userID, err = uuid.Parse(*rawID)
		if err != nil {
			log.Fatalf("Invalid user id %q: %v", *rawID, err)
		}
	}

	manager := pkgjwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	token, err := manager.GenerateToken(userID, *role)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	log.Printf("🔑 Issued %s token for %s (valid %s)", *role, userID, manager.GetExpiry())
	fmt.Println(token)
}
