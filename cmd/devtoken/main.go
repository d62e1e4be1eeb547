// Command devtoken prints a bearer token accepted by an API running with
// DEV_SIGNING_SECRET and no AUTH0_DOMAIN.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/coffeeshop/backend/config"
	"github.com/pageza/coffeeshop/backend/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config-path", "", "optional TOML configuration file")
	permissions := flag.String("permissions", "get:drinks,get:drinks-detail", "comma separated permissions; empty omits the claim")
	subject := flag.String("subject", "auth0|developer", "token subject")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DevSigningSecret == "" {
		logrus.Fatal("DEV_SIGNING_SECRET is not configured")
	}

	claims := service.NewDevClaims(*subject, cfg.APIAudience, *ttl, parsePermissions(*permissions)...)
	token, err := service.IssueToken(jwt.SigningMethodHS256, []byte(cfg.DevSigningSecret), service.DevKeyID, claims)
	if err != nil {
		logrus.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Fprintln(os.Stdout, token)
}

func parsePermissions(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
