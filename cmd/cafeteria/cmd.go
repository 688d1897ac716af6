package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/cafeteria/portal-system/internal/app"
	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	cfg *config.Config
	log zerolog.Logger
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  serve                                        - run the portals (default)")
	fmt.Fprintln(cli.out, "  add-student -username NAME [-name N] [-phone P] - create a student; the password is prompted")
	fmt.Fprintln(cli.out, "  accounts                                     - print the size of every account collection")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return cli.serve(ctx)
	}

	addStudentCmd := flag.NewFlagSet("add-student", flag.ContinueOnError)
	addStudentCmd.SetOutput(cli.out)
	username := addStudentCmd.String("username", "", "The student's username. The password will be prompted next.")
	name := addStudentCmd.String("name", "", "Display name.")
	phone := addStudentCmd.String("phone", "", "Phone number.")

	switch args[1] {
	case "serve":
		return cli.serve(ctx)
	case "add-student":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *username == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(ctx, domain.Account{
			Name:        *name,
			PhoneNumber: *phone,
			UserName:    *username,
			Password:    string(pwd),
		})
	case "accounts":
		return cli.accounts(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cli.cfg, cli.log)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Start(ctx)

	srv := &http.Server{
		Addr:         cli.cfg.Addr,
		Handler:      a.Echo,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		cli.log.Info().Str("addr", srv.Addr).Msg("portals listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	cli.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (cli *commandLine) addStudent(ctx context.Context, acc domain.Account) error {
	a, err := app.New(ctx, cli.cfg, cli.log)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Stores.Students.Add(ctx, &domain.Student{Account: acc}) {
		return fmt.Errorf("student %q was not added", acc.UserName)
	}
	fmt.Fprintf(cli.out, "student %s added\n", acc.UserName)
	return nil
}

func (cli *commandLine) accounts(ctx context.Context) error {
	a, err := app.New(ctx, cli.cfg, cli.log)
	if err != nil {
		return err
	}
	defer a.Close()

	counts := a.Stores.Counts(ctx)
	for _, k := range append([]domain.Kind{domain.KindAdmin, domain.KindStudent}, domain.ManagerKinds...) {
		fmt.Fprintf(cli.out, "%-22s %d\n", k, counts[k])
	}
	return nil
}

