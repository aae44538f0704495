package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/avdim/roomchat/internal/adapters/rest"
	"github.com/avdim/roomchat/internal/adapters/ws"
	"github.com/avdim/roomchat/internal/app"
	"github.com/avdim/roomchat/internal/config"
	"github.com/avdim/roomchat/internal/domain"
)

var (
	roomID     string
	userID     string
	username   string
	configFile string
)

func main() {
	root := &cobra.Command{
		Use:          "roomchat",
		Short:        "Terminal client for a single chat room",
		RunE:         run,
		SilenceUsage: true,
	}
	root.Flags().StringVar(&roomID, "room", "", "room id to join")
	root.Flags().StringVar(&username, "username", "", "display name")
	root.Flags().StringVar(&userID, "user-id", "", "registered user id (generated when empty)")
	root.Flags().StringVar(&configFile, "config", "", "config file path (default config/config.{CONFIG_ENV}.yaml)")
	_ = root.MarkFlagRequired("room")
	_ = root.MarkFlagRequired("username")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	self, err := domain.NewUser(userID, username)
	if err != nil {
		return err
	}

	dir := rest.NewClient(cfg.APIBase, cfg.FetchTimeout, log.Logger)
	dialer := &ws.Dialer{Base: cfg.WSBase, HandshakeTimeout: cfg.HandshakeTimeout, Log: log.Logger}

	sess := app.NewSession(app.Options{
		Room:           domain.RoomID(roomID),
		Self:           *self,
		Dialer:         dialer,
		Directory:      dir,
		ReconnectDelay: cfg.ReconnectDelay,
		DedupWindow:    cfg.DedupWindow,
		FetchTimeout:   cfg.FetchTimeout,
		Logger:         log.Logger,
	})

	sess.Open(ctx)
	go render(ctx, sess)
	go readInput(cancel, sess)

	<-ctx.Done()
	sess.Close()
	return nil
}

// readInput forwards stdin lines as sends. Unsent input is the
// caller's problem by design, so it is echoed back as dropped.
func readInput(cancel context.CancelFunc, sess *app.Session) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "/leave" {
			cancel()
			return
		}
		if !sess.Send(line) {
			fmt.Println("! not connected, message dropped")
		}
	}
	cancel()
}

// render consumes coalesced update signals and re-reads the session's
// read-only projections: transcript, status, count and roster.
func render(ctx context.Context, sess *app.Session) {
	var printed int
	status := sess.Status()
	count := sess.ParticipantCount()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Updates():
		}

		if s := sess.Status(); s != status {
			status = s
			if title := sess.Title(); title != "" {
				fmt.Printf("-- %s [%s] --\n", status, title)
			} else {
				fmt.Printf("-- %s --\n", status)
			}
		}
		if c := sess.ParticipantCount(); c != count {
			count = c
			fmt.Printf("-- connected users: %d (%s) --\n", count, strings.Join(sess.RosterNames(), ", "))
		}
		entries := sess.Entries()
		for _, e := range entries[printed:] {
			switch {
			case e.Category == domain.CategorySystem:
				fmt.Printf("* %s\n", e.Text)
			case e.IsSelf:
				fmt.Printf("me: %s\n", e.Text)
			default:
				fmt.Printf("%s: %s\n", e.SenderName, e.Text)
			}
		}
		printed = len(entries)
	}
}
