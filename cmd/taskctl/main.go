// Command taskctl is a small terminal client for a taskdeck server. It logs
// in with the given email (prompting for the password), runs one command and
// exits.
//
// Usage:
//
//	taskctl -server http://localhost:5000 -email a@x.com list
//	taskctl -email a@x.com add "write release notes"
//	taskctl -email a@x.com done <task-id>
//	taskctl -email a@x.com rm <task-id>
//	taskctl -email a@x.com -name "Ada" register
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/client"
	"github.com/taskdeck/taskdeck/core"
)

func main() {
	server := flag.String("server", "http://localhost:5000", "server base URL")
	email := flag.String("email", "", "account email")
	name := flag.String("name", "", "display name (register only)")
	flag.Parse()

	if err := run(*server, *email, *name, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "taskctl:", err)
		os.Exit(1)
	}
}

func run(server, email, name string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given (register, list, add, done, rm)")
	}
	if email == "" {
		return fmt.Errorf("-email is required")
	}

	api, err := client.New(server)
	if err != nil {
		return err
	}
	session := client.NewSession(api, nil)
	ctx := context.Background()

	password, err := promptPassword()
	if err != nil {
		return err
	}

	command, rest := args[0], args[1:]

	if command == "register" {
		if name == "" {
			return fmt.Errorf("-name is required to register")
		}
		user, err := session.Register(ctx, name, email, password)
		if err != nil {
			return err
		}
		fmt.Printf("registered %s <%s>\n", user.Name, user.Email)
		return nil
	}

	if _, err := session.Login(ctx, email, password); err != nil {
		return err
	}
	defer session.Logout(ctx)

	switch command {
	case "list":
		tasks, err := api.Tasks(ctx, client.TaskListOptions{})
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("no tasks")
			return nil
		}
		for _, t := range tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Printf("[%s] %-8s %s  %s\n", mark, t.Priority, t.ID, t.Title)
		}
		return nil

	case "add":
		if len(rest) == 0 {
			return fmt.Errorf("add needs a task title")
		}
		task, err := api.CreateTask(ctx, client.TaskDraft{Title: strings.Join(rest, " ")})
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", task.ID)
		return nil

	case "done":
		if len(rest) != 1 {
			return fmt.Errorf("done needs a task id")
		}
		return toggle(ctx, api, rest[0], true)

	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("rm needs a task id")
		}
		if err := api.DeleteTask(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func toggle(ctx context.Context, api *client.Client, id string, completed bool) error {
	tasks, err := api.Tasks(ctx, client.TaskListOptions{})
	if err != nil {
		return err
	}
	var target *core.Task
	for i := range tasks {
		if tasks[i].ID == id {
			target = &tasks[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("task %s not found", id)
	}

	_, err = api.UpdateTask(ctx, id, client.TaskDraft{
		Title:       target.Title,
		Description: target.Description,
		Completed:   completed,
		Priority:    target.Priority,
	})
	if err != nil {
		return err
	}
	fmt.Println("updated")
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
