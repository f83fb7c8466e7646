// Command stafftoken mints a STAFF bearer token for local use against the
// seating API. The secret and lifetime default to JWT_SECRET and
// STAFF_TOKEN_TTL from the environment or a .env file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/iliyamo/bus-seating/internal/config"
	"github.com/iliyamo/bus-seating/internal/utils"
)

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "stafftoken:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		secret  string
		staffID uint64
		ttl     time.Duration
		verbose bool
	)
	flagSet := pflag.NewFlagSet("stafftoken", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret (default: $JWT_SECRET)")
	flagSet.Uint64Var(&staffID, "staff-id", 1, "staff member the token is issued to")
	flagSet.DurationVar(&ttl, "ttl", config.LoadStaffTokenTTL(), "token lifetime ($STAFF_TOKEN_TTL)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "also print the expiry time")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if secret == "" {
		return errors.New("no secret: pass --secret or set JWT_SECRET")
	}
	if staffID == 0 {
		return errors.New("--staff-id must be positive")
	}
	if ttl <= 0 {
		return errors.New("--ttl must be positive")
	}

	tok, err := utils.NewAccessToken(secret, staffID, utils.RoleStaff, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok.Token)
	if verbose {
		fmt.Fprintln(out, "expires", tok.Exp.Format(time.RFC3339))
	}
	return nil
}
