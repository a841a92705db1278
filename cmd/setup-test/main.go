// Command setup-test mints a session token signed with the local JWT_SECRET,
// for driving cmd/replay or curl against a dev server without going through
// POST /v1/auth/session. The secret must match the one the server runs with.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/eleven-am/align-backend/internal/auth"
	"github.com/eleven-am/align-backend/internal/bootstrap"
)

func main() {
	name := flag.String("name", "Test User", "display name baked into the token")
	flag.Parse()

	cfg := bootstrap.LoadConfig()
	svc := auth.NewService(cfg.JWTSecret, cfg.SessionTTL)

	token, claims, err := svc.Mint(*name)
	if err != nil {
		log.Fatal("mint token:", err)
	}

	fmt.Println("User ID:", claims.UserID)
	fmt.Println("Expires:", claims.ExpiresAt.Format(time.RFC3339))
	fmt.Println("")
	fmt.Println("Token:", token)
	fmt.Println("")
	fmt.Println("Replay a recording with it:")
	fmt.Printf("  go run ./cmd/replay -token %s -file recording.jsonl\n", token)
}
