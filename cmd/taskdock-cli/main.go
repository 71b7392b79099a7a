// ABOUTME: Command-line client for the taskdock task tracker
// ABOUTME: Manages login sessions and tasks over the HTTP API

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/relaylabs/taskdock/internal/client"
)

const banner = `
 _            _       _            _
| |_ __ _ ___| | ____| | ___   ___| | __
| __/ _' / __| |/ / _' |/ _ \ / __| |/ /
| || (_| \__ \   < (_| | (_) | (__|   <
 \__\__,_|___/_|\_\__,_|\___/ \___|_|\_\
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tokens := client.NewTokenStore(client.DefaultTokenPath())
	c := client.New(cfg.Server.URL, tokens)

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "register":
		err = cmdRegister(ctx, c)
	case "login":
		err = cmdLogin(ctx, c)
	case "logout":
		err = cmdLogout(c)
	case "whoami":
		err = cmdWhoami(ctx, c)
	case "list":
		err = cmdList(ctx, c, args)
	case "add":
		err = cmdAdd(ctx, c, args)
	case "done":
		err = cmdSetCompleted(ctx, c, args, true)
	case "undone":
		err = cmdSetCompleted(ctx, c, args, false)
	case "rm":
		err = cmdRemove(ctx, c, args)
	case "profile":
		err = cmdProfile(ctx, c, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrNotLoggedIn) {
			fmt.Fprintln(os.Stderr, "Not logged in. Run: taskdock-cli login")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: taskdock-cli <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  register                     Create an account and log in")
	fmt.Println("  login                        Log in and store the session token")
	fmt.Println("  logout                       Forget the stored session token")
	fmt.Println("  whoami                       Show the logged-in user")
	fmt.Println("  list [--search s] [--completed true|false] [--date YYYY-MM-DD]")
	fmt.Println("                               List your tasks, optionally filtered")
	fmt.Println("  add <title> [--due YYYY-MM-DD]")
	fmt.Println("                               Create a task")
	fmt.Println("  done <task-id>               Mark a task completed")
	fmt.Println("  undone <task-id>             Mark a task active again")
	fmt.Println("  rm <task-id>                 Delete a task")
	fmt.Println("  profile [--name n] [--email e]")
	fmt.Println("                               Show or update your profile")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  TASKDOCK_CLI_CONFIG          Config file path (default: ~/.config/taskdock/cli.toml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  taskdock-cli login")
	fmt.Println("  taskdock-cli add 'Buy groceries' --due 2026-09-15")
	fmt.Println("  taskdock-cli list --completed false")
	fmt.Println()
}

func prompt(reader *bufio.Reader, question string) string {
	fmt.Printf("%s: ", question)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return ""
	}
	return strings.TrimSpace(input)
}

func cmdRegister(ctx context.Context, c *client.Client) error {
	reader := bufio.NewReader(os.Stdin)
	name := prompt(reader, "Name")
	email := prompt(reader, "Email")
	password := prompt(reader, "Password")

	if err := c.Register(ctx, name, email, password); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Registered and logged in as %s\n", email)
	return nil
}

func cmdLogin(ctx context.Context, c *client.Client) error {
	reader := bufio.NewReader(os.Stdin)
	email := prompt(reader, "Email")
	password := prompt(reader, "Password")

	if err := c.Login(ctx, email, password); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Logged in as %s\n", email)
	return nil
}

func cmdLogout(c *client.Client) error {
	if err := c.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func cmdWhoami(ctx context.Context, c *client.Client) error {
	user, err := c.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	fmt.Printf("id: %s\n", user.ID)
	return nil
}

func cmdList(ctx context.Context, c *client.Client, args []string) error {
	var query client.TaskQuery

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--search":
			i++
			if i >= len(args) {
				return fmt.Errorf("--search requires a value")
			}
			query.Search = args[i]
		case "--completed":
			i++
			if i >= len(args) {
				return fmt.Errorf("--completed requires true or false")
			}
			switch args[i] {
			case "true":
				v := true
				query.Completed = &v
			case "false":
				v := false
				query.Completed = &v
			default:
				return fmt.Errorf("--completed requires true or false, got %q", args[i])
			}
		case "--date":
			i++
			if i >= len(args) {
				return fmt.Errorf("--date requires a value (YYYY-MM-DD)")
			}
			query.Date = args[i]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	tasks, err := c.Tasks(ctx, query)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tDUE\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, formatStatus(t), formatDue(t.DueDate), t.Title)
	}
	return w.Flush()
}

func formatStatus(t client.Task) string {
	if t.Completed {
		return color.GreenString("done")
	}
	if t.DueDate != "" {
		if due, err := time.Parse(time.RFC3339, t.DueDate); err == nil && due.Before(time.Now()) {
			return color.RedString("overdue")
		}
	}
	return "active"
}

func formatDue(dueDate string) string {
	if dueDate == "" {
		return "-"
	}
	if due, err := time.Parse(time.RFC3339, dueDate); err == nil {
		return due.Local().Format("2006-01-02")
	}
	return dueDate
}

func cmdAdd(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: taskdock-cli add <title> [--due YYYY-MM-DD]")
	}

	title := args[0]
	dueDate := ""
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--due":
			i++
			if i >= len(args) {
				return fmt.Errorf("--due requires a value (YYYY-MM-DD)")
			}
			dueDate = args[i]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	task, err := c.CreateTask(ctx, title, dueDate)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Added task %s\n", task.ID)
	return nil
}

func cmdSetCompleted(ctx context.Context, c *client.Client, args []string, completed bool) error {
	if len(args) != 1 {
		verb := "done"
		if !completed {
			verb = "undone"
		}
		return fmt.Errorf("usage: taskdock-cli %s <task-id>", verb)
	}

	task, err := c.SetCompleted(ctx, args[0], completed)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	if task.Completed {
		green.Printf("  ✓ Completed: %s\n", task.Title)
	} else {
		green.Printf("  ✓ Reopened: %s\n", task.Title)
	}
	return nil
}

func cmdRemove(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskdock-cli rm <task-id>")
	}

	if err := c.DeleteTask(ctx, args[0]); err != nil {
		return err
	}

	fmt.Println("Task deleted")
	return nil
}

func cmdProfile(ctx context.Context, c *client.Client, args []string) error {
	var name, email *string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--name":
			i++
			if i >= len(args) {
				return fmt.Errorf("--name requires a value")
			}
			name = &args[i]
		case "--email":
			i++
			if i >= len(args) {
				return fmt.Errorf("--email requires a value")
			}
			email = &args[i]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	var user *client.User
	var err error
	if name != nil || email != nil {
		user, err = c.UpdateProfile(ctx, name, email)
	} else {
		user, err = c.Profile(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	fmt.Printf("id: %s\n", user.ID)
	return nil
}
