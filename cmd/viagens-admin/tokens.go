package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/rotalabs/viagens-ui/internal/claims"
)

type mintTokenOptions struct {
	UserID string
	Email  string
	Name   string
	Roles  []string
	TTL    time.Duration
}

type inspectTokenOptions struct {
	Token string
	Query string
	Raw   bool
}

// runMintToken signs an HS256 token in the shape the dev auth provider mints,
// using the configured signing key and role claim namespace. Useful for
// exercising the api stub or the /auth/status endpoint with curl.
func runMintToken(cmdCtx *commandContext, args []string) error {
	opts, err := parseMintTokenFlags(cmdCtx, args)
	if err != nil {
		return err
	}

	signingKey := cmdCtx.Config.Auth.DevAuth.SigningKey
	if signingKey == "" {
		return errors.New("DEV_AUTH_SIGNING_KEY is not configured")
	}

	now := time.Now()
	payload := jwt.MapClaims{
		"sub":   opts.UserID,
		"email": opts.Email,
		"name":  opts.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(opts.TTL).Unix(),
	}
	roleKey := "roles"
	if ns := cmdCtx.Config.Auth.RoleClaimNamespace; ns != "" {
		roleKey = ns + "/roles"
	}
	payload[roleKey] = opts.Roles

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString([]byte(signingKey))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	return writeln(os.Stdout, token)
}

// runInspectToken decodes a token's payload segment the same way the auth
// service does (no signature verification) and reports the derived role set.
// A JMESPath --query prints the matching claim fragment instead.
func runInspectToken(cmdCtx *commandContext, args []string) error {
	opts, err := parseInspectTokenFlags(args)
	if err != nil {
		return err
	}

	payload, err := claims.Parse(opts.Token)
	if err != nil {
		return fmt.Errorf("decode token payload: %w", err)
	}

	if opts.Query != "" {
		return printClaimQuery(opts.Query, payload)
	}
	if opts.Raw {
		return printJSON(payload)
	}

	return printTokenSummary(cmdCtx, payload)
}

func printClaimQuery(query string, payload map[string]any) error {
	if _, err := jmespath.Compile(query); err != nil {
		return fmt.Errorf("invalid query %q: %w", query, err)
	}
	result, err := jmespath.Search(query, payload)
	if err != nil {
		return fmt.Errorf("evaluate query: %w", err)
	}
	return printJSON(result)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return writeln(os.Stdout, string(data))
}

func printTokenSummary(cmdCtx *commandContext, payload map[string]any) error {
	roleSet := claims.Roles(cmdCtx.Config.Auth.RoleClaimKeys(), payload)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Claim\tValue"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := writef(w, "%s\t%v\n", k, payload[k]); err != nil {
			return fmt.Errorf("write claim %q: %w", k, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush claims: %w", err)
	}

	if err := writef(os.Stdout, "\nDerived role set: %s\n", strings.Join(roleSet, ", ")); err != nil {
		return fmt.Errorf("write role set: %w", err)
	}
	if claims.HasRole(roleSet, cmdCtx.Config.Auth.AdminRole) {
		return writeln(os.Stdout, "Admin: yes")
	}
	return writeln(os.Stdout, "Admin: no")
}

func parseMintTokenFlags(cmdCtx *commandContext, args []string) (mintTokenOptions, error) {
	fs := flag.NewFlagSet("mint-token", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	dev := cmdCtx.Config.Auth.DevAuth

	var opts mintTokenOptions
	var roles string
	fs.StringVar(&opts.UserID, "user-id", dev.UserID, "Subject claim")
	fs.StringVar(&opts.Email, "email", dev.Email, "Email claim")
	fs.StringVar(&opts.Name, "name", dev.Name, "Name claim")
	fs.StringVar(&roles, "roles", strings.Join(dev.Roles, ","), "Comma-separated role names")
	fs.DurationVar(&opts.TTL, "ttl", 8*time.Hour, "Token lifetime")

	if err := fs.Parse(args); err != nil {
		return mintTokenOptions{}, err
	}

	if opts.TTL <= 0 {
		return mintTokenOptions{}, errors.New("--ttl must be greater than zero")
	}
	for _, r := range strings.Split(roles, ",") {
		if trimmed := strings.TrimSpace(r); trimmed != "" {
			opts.Roles = append(opts.Roles, trimmed)
		}
	}

	return opts, nil
}

func parseInspectTokenFlags(args []string) (inspectTokenOptions, error) {
	fs := flag.NewFlagSet("inspect-token", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts inspectTokenOptions
	fs.StringVar(&opts.Token, "token", "", "Bearer token to decode (required)")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression evaluated against the claim payload")
	fs.BoolVar(&opts.Raw, "json", false, "Print the raw claim payload as JSON")

	if err := fs.Parse(args); err != nil {
		return inspectTokenOptions{}, err
	}

	opts.Token = strings.TrimSpace(opts.Token)
	if opts.Token == "" {
		return inspectTokenOptions{}, errors.New("--token is required")
	}

	return opts, nil
}
