// Command token issues operator tokens signed with the configured secret.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Temutjin2k/smartrash/config"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/internal/service/auth"
	"github.com/Temutjin2k/smartrash/pkg/configparser"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	subject    = flag.String("subject", "operator", "Token subject, shown in the logs")
	role       = flag.String("role", string(types.RoleOperator), "Role claim: OPERATOR or VIEWER")
	ttl        = flag.Duration("ttl", 0, "Token lifetime, defaults to AUTH_ACCESS_TOKEN_TTL")
)

func main() {
	flag.Parse()

	var cfg config.Config
	if err := configparser.LoadAndParseYaml(*configPath, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	r := types.UserRole(*role)
	if r != types.RoleOperator && r != types.RoleViewer {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	lifetime := cfg.Auth.AccessTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, expires, err := auth.NewTokenService(cfg.Auth.JWTSecret, lifetime).Issue(context.Background(), *subject, r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to issue token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires at", expires.Format(time.RFC3339))
}
