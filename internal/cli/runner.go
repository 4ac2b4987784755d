package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/idilsaglam/journal/internal/api"
	"github.com/idilsaglam/journal/internal/auth"
	"github.com/idilsaglam/journal/internal/tui"
	"github.com/idilsaglam/journal/internal/ui"
)

// Options carry the wired-up client into subcommands.
type Options struct {
	Client *api.Client
	Tokens *auth.Store
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: journal add <title...>  (content read from stdin when piped)")
			return 2
		}
		return doAdd(opt, strings.Join(a, " "))

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: journal rm <entry-id>")
			return 2
		}
		return doRemove(opt, a[0])

	case "login":
		return doLogin(opt)

	case "register":
		return doRegister(opt)

	case "logout":
		return doLogout(opt)

	case "status":
		return doStatus(opt)

	case "whoami":
		return doWhoAmI(opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`journal - a terminal client for your journal

Usage:
  journal [subcommand] [args]

Subcommands:
  ls                 Browse entries (interactive TUI, the default)
  add <title...>     Create an entry; content is read from stdin when piped
  rm <entry-id>      Delete an entry
  login              Log in with email and password
  register           Create an account
  logout             Forget the stored token
  status             Show where the current token comes from
  whoami             Show the logged-in profile

Environment:
  JOURNAL_API_URL / JOURNAL_API_BASE_URL   backend address
  JOURNAL_TOKEN                            token override (wins over login)
  JOURNAL_DEBUG                            debug log file path

Examples:
  journal login
  journal add "Monday" < notes.txt
  journal
`)
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func doLogin(opt Options) int {
	email, err := prompt("Email: ")
	if err != nil {
		ui.Fail("read email: " + err.Error())
		return 1
	}
	password, err := prompt("Password: ")
	if err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}
	if err := opt.Client.Login(context.Background(), email, password); err != nil {
		ui.Fail("login: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doRegister(opt Options) int {
	email, err := prompt("Email: ")
	if err != nil {
		ui.Fail("read email: " + err.Error())
		return 1
	}
	password, err := prompt("Password: ")
	if err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}
	name, err := prompt("Display name (optional): ")
	if err != nil {
		ui.Fail("read name: " + err.Error())
		return 1
	}
	user, err := opt.Client.Register(context.Background(), email, password, name)
	if err != nil {
		ui.Fail("register: " + err.Error())
		return 1
	}
	ui.OK("account created for " + user.Email)

	// log straight in with the same credentials
	if err := opt.Client.Login(context.Background(), email, password); err != nil {
		ui.Fail("login: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doLogout(opt Options) int {
	ti, _ := opt.Tokens.Get()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := opt.Client.Logout(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doStatus(opt Options) int {
	ti, _ := opt.Tokens.Get()
	if ti == nil {
		fmt.Println(ui.MutedStyle.Render("not logged in"))
		fmt.Println("Run: journal login")
		return 0
	}
	fmt.Printf("source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		fmt.Printf("expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Println("expires: (unknown)")
	}
	fmt.Println("env override: " + auth.EnvToken)
	return 0
}

func doWhoAmI(opt Options) int {
	ti, _ := opt.Tokens.Get()
	if ti == nil {
		ui.Fail("not logged in. Run: journal login")
		return 2
	}

	user, err := opt.Client.Me(context.Background())
	if err != nil {
		ui.Fail("whoami: " + err.Error())
		return 1
	}
	lines := []string{"email: " + user.Email}
	if user.Name != "" {
		lines = append(lines, "name:  "+user.Name)
	}
	lines = append(lines, "id:    "+user.ID)
	ui.Panel(lines)

	// JWT tokens also get a local, unverified payload dump
	if claims := decodeClaims(ti.Token); claims != nil {
		if b, err := json.MarshalIndent(claims, "", "  "); err == nil {
			fmt.Println(ui.MutedStyle.Render("token claims (unverified):"))
			fmt.Println(string(b))
		}
	}
	return 0
}

// decodeClaims parses a JWT without verifying its signature; opaque tokens
// return nil.
func decodeClaims(token string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// ---------------------------------------------------
// Entry subcommands (edit lives in the TUI)
// ---------------------------------------------------

func doList(opt Options) int {
	if err := tui.Run(opt.Client); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doAdd(opt Options, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}
	content := ""
	if !stdinIsTTY() {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			ui.Fail("read stdin: " + err.Error())
			return 1
		}
		content = string(b)
	}
	entry, err := opt.Client.CreateEntry(context.Background(), title, content)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.OK("added " + entry.ID)
	return 0
}

func doRemove(opt Options, id string) int {
	if err := opt.Client.DeleteEntry(context.Background(), id); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func stdinIsTTY() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
