// Command token issues an admin JWT for local use, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"novi.com/app/internal/shared/auth"
)

func main() {
	_ = godotenv.Load()

	subject := flag.String("sub", "admin", "token subject")
	roles := flag.String("roles", "ROLE_ADMIN", "comma separated roles")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	v := auth.NewValidator(os.Getenv("JWT_SECRET"))
	if !v.Enabled() {
		log.Fatal("JWT_SECRET is required")
	}
	tok, err := v.Issue(*subject, strings.Split(*roles, ","), *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(tok)
}
