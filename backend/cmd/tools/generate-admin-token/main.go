package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/jwt"
)

func main() {
	var (
		configFolder string
		name         string
		ttl          time.Duration
	)
	pflag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	pflag.StringVar(&name, "name", "admin", "moderator name stored in the token")
	pflag.DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to jwt_ttl from the config")
	pflag.Parse()

	cfg := config.MustLoad(configFolder)
	if ttl == 0 {
		ttl = cfg.JwtTTL()
	}

	token, err := jwt.New(cfg.JwtKey(), ttl).NewToken(domain.User{Name: name, Admin: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=================================================")
	fmt.Println("  Admin token for", name)
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Printf("Valid until %s\n", time.Now().Add(ttl).UTC().Format(time.RFC3339))
	fmt.Println("Send it as \"Authorization: Bearer <token>\" to /api/admin endpoints.")
	fmt.Println("=================================================")
}
