package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrichmond93/ChatbotPOC/internal/client"
	"github.com/jrichmond93/ChatbotPOC/internal/logger"
	"github.com/jrichmond93/ChatbotPOC/pkg/types"
)

var (
	sessionID string
	stock     string
	price     float64
	followUp  bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:           "chatctl",
	Short:         "Talk to the chatbot server from a terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(logger.LevelDebug)
		}
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive conversation; type an empty line or /quit to exit",
	Args:  cobra.NoArgs,
}

var sendCmd = &cobra.Command{
	Use:   "send MESSAGE...",
	Short: "Send a single message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().SendMessage(cmd.Context(), chatRequest(strings.Join(args, " "), sessionID, cmd))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderReply(resp))
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show suggested follow-up questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resp, err := newClient().Suggestions(cmd.Context(), types.SuggestionsRequest{
			SessionID:  sessionID,
			Stock:      stock,
			IsFollowUp: followUp,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderSuggestions(resp.Suggestions))
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resp, err := newClient().Health(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", infoStyle.Render(resp.Status), resp.Message)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal to break the chatCmd <-> runChat initialization cycle.
	chatCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runChat(cmd.Context(), newClient(), os.Stdin, cmd.OutOrStdout())
	}

	rootCmd.PersistentFlags().String("server", client.DefaultBaseURL, "chatbot server base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log HTTP requests")
	if err := viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding server flag: %v\n", err)
		os.Exit(1)
	}
	viper.SetEnvPrefix("chatctl")
	if err := viper.BindEnv("server"); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding CHATCTL_SERVER: %v\n", err)
		os.Exit(1)
	}

	for _, cmd := range []*cobra.Command{chatCmd, sendCmd, suggestCmd} {
		cmd.Flags().StringVar(&sessionID, "session", "", "continue an existing session id")
		cmd.Flags().StringVar(&stock, "stock", "", "stock symbol to attach")
	}
	for _, cmd := range []*cobra.Command{chatCmd, sendCmd} {
		cmd.Flags().Float64Var(&price, "price", 0, "price of the attached stock")
	}
	suggestCmd.Flags().BoolVar(&followUp, "followup", false, "ask for follow-up suggestions")

	rootCmd.AddCommand(chatCmd, sendCmd, suggestCmd, healthCmd)
}

func newClient() *client.Client {
	return client.New(viper.GetString("server"))
}

// chatRequest attaches the --stock/--price quote when given.
func chatRequest(message, session string, cmd *cobra.Command) types.ChatRequest {
	req := types.ChatRequest{Message: message, SessionID: session}
	if stock != "" {
		q := &types.StockQuote{Symbol: strings.ToUpper(stock)}
		if cmd.Flags().Changed("price") {
			p := price
			q.Price = &p
		}
		req.StockContext = q
	}
	return req
}

// chatter is the part of the client the interactive loop needs.
type chatter interface {
	SendMessage(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error)
	Suggestions(ctx context.Context, req types.SuggestionsRequest) (*types.SuggestionsResponse, error)
}

func runChat(ctx context.Context, c chatter, in io.Reader, out io.Writer) error {
	session := sessionID
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, titleStyle.Render("Chatbot")+" "+mutedStyle.Render("(empty line or /quit to exit)"))
	if resp, err := c.Suggestions(ctx, types.SuggestionsRequest{SessionID: session, Stock: stock}); err == nil {
		fmt.Fprintln(out, renderSuggestions(resp.Suggestions))
	}

	for {
		fmt.Fprint(out, promptStyle.Render("you> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "/quit" {
			return nil
		}

		req := chatRequest(line, session, chatCmd)
		resp, err := c.SendMessage(ctx, req)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("Error: ")+err.Error())
			continue
		}
		session = resp.SessionID
		fmt.Fprintln(out, renderReply(resp))

		sugg, err := c.Suggestions(ctx, types.SuggestionsRequest{SessionID: session, Stock: stock, IsFollowUp: true})
		if err == nil {
			fmt.Fprintln(out, renderSuggestions(sugg.Suggestions))
		}
	}
}
