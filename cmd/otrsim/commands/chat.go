package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	domain "gotr/internal/domain"
	"gotr/internal/session"
)

// chatCmd opens an interactive OTR conversation with a single peer over
// the relay. It is the long-running counterpart to the teacher's
// one-shot send/recv commands: spec.md's exclusion of cross-restart
// session persistence means a conversation only exists for the
// lifetime of one invocation of this command.
func chatCmd() *cobra.Command {
	var startAKE bool
	cmd := &cobra.Command{
		Use:   "chat <peer>",
		Short: "Open an interactive OTR conversation with peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peer := args[0]
			facade, err := appCtx.Facade(peer)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go pollRelay(ctx, facade, peer)

			if startAKE {
				facade.StartAKE()
			}

			fmt.Printf("chatting with %s as %s. /help for commands, /quit to exit.\n", peer, account)
			return runChatREPL(facade)
		},
	}
	cmd.Flags().BoolVar(&startAKE, "start-ake", false, "begin the handshake immediately instead of waiting for a query")
	return cmd
}

func pollRelay(ctx context.Context, facade *session.Facade, peer string) {
	interval := time.Duration(appCtx.Wire.RelayPollIntervalMS()) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetchAndDeliver(ctx, facade, peer)
		}
	}
}

func fetchAndDeliver(ctx context.Context, facade *session.Facade, peer string) {
	frames, err := appCtx.Wire.Relay.Fetch(ctx, account, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nrelay fetch: %v\n", err)
		return
	}
	if len(frames) == 0 {
		return
	}
	delivered := 0
	for _, f := range frames {
		if f.From != peer {
			continue
		}
		text, err := facade.Receive(f.Body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\n%s: %v\n", peer, err)
		} else if text != "" {
			fmt.Printf("\n%s: %s\n> ", peer, text)
		}
		delivered++
	}
	if delivered > 0 {
		_ = appCtx.Wire.Relay.Ack(ctx, account, delivered)
	}
}

func runChatREPL(facade *session.Facade) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, "/") {
			if line == "" {
				continue
			}
			if err := facade.Send(line); err != nil {
				fmt.Fprintf(os.Stderr, "send: %v\n", err)
			}
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "/quit":
			return nil
		case "/help":
			printChatHelp()
		case "/status":
			fmt.Printf("status: %v  encrypted: %v\n", facade.SessionStatus(domain.ZeroTag), facade.IsEncrypted())
		case "/disconnect":
			if err := facade.Disconnect(); err != nil {
				fmt.Fprintf(os.Stderr, "disconnect: %v\n", err)
			}
		case "/smp":
			if len(fields) < 3 {
				fmt.Println("usage: /smp <question> <secret>")
				continue
			}
			question := fields[1]
			secret := strings.Join(fields[2:], " ")
			if err := facade.StartSMP(question, []byte(secret)); err != nil {
				fmt.Fprintf(os.Stderr, "smp: %v\n", err)
			}
		case "/respond":
			if len(fields) < 2 {
				fmt.Println("usage: /respond <secret>")
				continue
			}
			secret := strings.Join(fields[1:], " ")
			if err := facade.RespondSMP("", []byte(secret)); err != nil {
				fmt.Fprintf(os.Stderr, "respond: %v\n", err)
			}
		case "/abort":
			if err := facade.AbortSMP(); err != nil {
				fmt.Fprintf(os.Stderr, "abort: %v\n", err)
			}
		case "/instances":
			for _, tag := range facade.Instances() {
				fmt.Printf("  %d: %v\n", tag, facade.SessionStatus(tag))
			}
		case "/use":
			if len(fields) < 2 {
				fmt.Println("usage: /use <instance-tag|0>")
				continue
			}
			var tag uint32
			fmt.Sscanf(fields[1], "%d", &tag)
			if !facade.SetOutgoingInstance(domain.InstanceTag(tag)) {
				fmt.Println("unknown instance")
			}
		default:
			fmt.Printf("unknown command %q, try /help\n", fields[0])
		}
	}
}

func printChatHelp() {
	fmt.Println(`commands:
  /status              show session status
  /disconnect          end the encrypted session
  /smp <q> <secret>    start a shared-secret verification
  /respond <secret>    answer an in-progress verification
  /abort               cancel an in-progress verification
  /instances           list discovered peer instances
  /use <tag|0>         pin sends to one instance (0 = master)
  /quit                leave`)
}
