package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sgksm85/beauty-clinic-message-card/internal/comm"
	"github.com/sgksm85/beauty-clinic-message-card/internal/templates"
	"github.com/sgksm85/beauty-clinic-message-card/internal/viewer/client"
	"github.com/sgksm85/beauty-clinic-message-card/internal/viewer/reveal"
	"github.com/sgksm85/beauty-clinic-message-card/internal/viewer/share"
	"github.com/sgksm85/beauty-clinic-message-card/internal/viewer/viewstate"
)

var (
	apiURL   string
	shareURL string
)

func main() {
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:   "cardviewer",
		Short: "Create and open greeting message cards",
	}
	root.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "card service base URL")
	root.PersistentFlags().StringVar(&shareURL, "share-base", "http://localhost:8080", "public base URL used in share links")

	root.AddCommand(newCreateCmd())
	root.AddCommand(newOpenCmd())
	root.AddCommand(newTemplatesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available card templates",
		Run: func(cmd *cobra.Command, args []string) {
			for _, t := range templates.All() {
				fmt.Printf("%s  %s  %s\n", t.ID, t.Name, t.Description)
			}
		},
	}
}

func newCreateCmd() *cobra.Command {
	var templateID, message, senderName string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card and print its share link",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := comm.CreateCardRequest{
				TemplateID: templateID,
				Message:    message,
			}
			if senderName != "" {
				req.SenderName = &senderName
			}

			c := client.New(apiURL)
			id, err := c.CreateCard(cmd.Context(), req)
			if err != nil {
				return err
			}

			url := share.CardURL(shareURL, id)
			fmt.Println("カードが完成しました!")
			fmt.Println(url)
			fmt.Println()
			fmt.Println(share.LineShareText(req.SenderName, url))
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "template1", "template id")
	cmd.Flags().StringVar(&message, "message", "", "card message (required)")
	cmd.Flags().StringVar(&senderName, "sender", "", "optional sender name")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <card id or share URL>",
		Short: "Open a card; the first open on this device plays the reveal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cardIDFromArg(args[0])

			statePath, err := viewstate.DefaultPath()
			if err != nil {
				return err
			}
			tracker, err := viewstate.Open(statePath)
			if err != nil {
				return err
			}
			defer tracker.Close()

			orch := reveal.NewOrchestrator(client.New(apiURL), tracker, nil)
			defer orch.Close()

			state := orch.Open(cmd.Context(), id)
			switch state {
			case reveal.StateError:
				if errors.Is(orch.Err(), client.ErrNotFound) || errors.Is(orch.Err(), reveal.ErrNoCardID) {
					fmt.Println("カードが見つかりません")
					fmt.Println("URLが正しいか確認してください")
					return nil
				}
				return orch.Err()
			case reveal.StateAnimating:
				playAnimation(cmd.Context(), orch)
			}

			renderCard(orch.Card(), orch.Frame(), orch.FooterVisible())
			return nil
		},
	}
}

func cardIDFromArg(arg string) string {
	if i := strings.LastIndex(arg, "/card/"); i >= 0 {
		return arg[i+len("/card/"):]
	}
	return arg
}

// playAnimation redraws the card at ~10fps until the orchestrator settles.
func playAnimation(ctx context.Context, orch *reveal.Orchestrator) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for orch.State() == reveal.StateAnimating {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Print("\033[2J\033[H")
			renderCard(orch.Card(), orch.Frame(), orch.FooterVisible())
		}
	}
}

func renderCard(card *comm.CardData, frame reveal.Frame, footer bool) {
	if card == nil {
		return
	}

	tpl, ok := templates.GetByID(card.TemplateID)
	if !ok {
		// unvalidated template references can dangle; show the card plain
		tpl = templates.Template{TextColor: "#FFFFFF", AccentColor: "#FFFFFF"}
	}

	// translate maps to vertical offset, opacity gates what is drawn yet
	for i := 0; i < int(frame.TranslateY/10); i++ {
		fmt.Println()
	}

	if frame.ContainerOpacity > 0 {
		fmt.Println(colorize("────", tpl.AccentColor))
		if frame.TextOpacity > 0.5 {
			fmt.Println(colorize(card.Message, tpl.TextColor))
			if card.SenderName != nil {
				fmt.Println(colorize(*card.SenderName, tpl.TextColor))
			}
		}
	}

	if footer {
		fmt.Println()
		fmt.Println("美容クリニックより")
	}
}

func colorize(text, hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return text
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s\033[0m", r, g, b, text)
}

func parseHex(hex string) (int64, int64, int64, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	r, err1 := strconv.ParseInt(hex[0:2], 16, 32)
	g, err2 := strconv.ParseInt(hex[2:4], 16, 32)
	b, err3 := strconv.ParseInt(hex[4:6], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}
