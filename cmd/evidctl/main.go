// Copyright (c) 2026 EvidHub. All rights reserved.
// Author: dev@evidhub.io

// Command evidctl is the operator CLI for the EvidHub API.
//
// It authenticates with credentials, keeps the resulting session in a local
// profile file, and answers who the operator currently is:
//
//	evidctl login -email officer@demo.com
//	evidctl whoami
//	evidctl logout
//
// One operator owns the whole process, so the session store is the
// file-backed profile rather than Redis.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evidhub/console/internal/platform/apperr"
	"github.com/evidhub/console/internal/route"
	"github.com/evidhub/console/internal/session"
	"github.com/evidhub/console/internal/upstream"
)

const commandTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "login":
		err = login(ctx, os.Args[2:])
	case "whoami":
		err = whoami(ctx, os.Args[2:])
	case "logout":
		err = logout(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "evidctl:", message(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: evidctl <login|whoami|logout> [flags]")
}

// commonFlags declares the flags every subcommand shares.
func commonFlags(name string) (*flag.FlagSet, *string, *string) {
	flags := flag.NewFlagSet(name, flag.ExitOnError)
	api := flags.String("api", defaultAPIURL(), "EvidHub API base URL")
	profile := flags.String("profile", defaultProfilePath(), "session profile file")
	return flags, api, profile
}

// login authenticates with email and password and persists the session.
func login(ctx context.Context, args []string) error {
	flags, api, profile := commonFlags("login")
	email := flags.String("email", "", "account email")
	_ = flags.Parse(args)

	if *email == "" {
		return fmt.Errorf("login requires -email")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	client := upstream.NewClient(*api)
	authenticated, err := client.LoginWithCredentials(ctx, *email, password)
	if err != nil {
		return err
	}

	store := session.NewFileStore(*profile)
	if err := store.Write(ctx, authenticated.Session); err != nil {
		return err
	}

	destination, err := route.DestinationFor(authenticated.Session.Role)
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s (%s), dashboard: %s\n",
		*email, authenticated.Session.Role, destination)
	return nil
}

// whoami probes the stored session against the remote API.
//
// A definitively rejected token destroys the profile, same as the console's
// forced invalidation. A transport failure keeps it.
func whoami(ctx context.Context, args []string) error {
	flags, api, profile := commonFlags("whoami")
	_ = flags.Parse(args)

	store := session.NewFileStore(*profile)
	current, err := store.Read(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("not logged in")
	}

	client := upstream.NewClient(*api)
	if _, err := client.CurrentUser(ctx, current.Token); err != nil {
		if apperr.IsCode(err, "SESSION_INVALID") {
			if clearErr := store.Clear(ctx); clearErr != nil {
				return clearErr
			}
			return fmt.Errorf("session expired, profile cleared")
		}
		return err
	}

	identity := current.Email
	if current.IsWallet() {
		identity = current.Address
	}

	destination, err := route.DestinationFor(current.Role)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s), dashboard: %s\n", identity, current.Role, destination)
	return nil
}

// logout clears the stored profile. Idempotent.
func logout(args []string) error {
	flags, _, profile := commonFlags("logout")
	_ = flags.Parse(args)

	if err := session.NewFileStore(*profile).Clear(context.Background()); err != nil {
		return err
	}

	fmt.Println("logged out")
	return nil
}

// readPassword prompts on stderr and reads one line from stdin. Reading from
// stdin rather than a flag keeps the password out of shell history and
// process listings.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("empty password")
	}

	return password, nil
}

// message strips the structured error down to what an operator should see.
func message(err error) string {
	if appError := apperr.As(err); appError != nil {
		return appError.Message
	}
	return err.Error()
}

func defaultAPIURL() string {
	if url := os.Getenv("EVIDHUB_API_URL"); url != "" {
		return url
	}
	return "https://api.evidhub.app"
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".evidhub-session.json"
	}
	return filepath.Join(home, ".evidhub", "session.json")
}
