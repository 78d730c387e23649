package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kmelnyk/persona-chat-go/api"
	"github.com/kmelnyk/persona-chat-go/chat"
	"github.com/kmelnyk/persona-chat-go/config"
	"github.com/kmelnyk/persona-chat-go/persona"
	"github.com/kmelnyk/persona-chat-go/tui"
)

var (
	// Flags
	serverURL      string
	personaID      string
	webSearch      bool
	searchProvider string
	verbose        bool

	rootCmd = &cobra.Command{
		Use:   "persona-chat",
		Short: "Terminal client for the persona chat backend",
		Long:  "Persona Chat - a terminal client for chatting with configurable AI personas, with saved chats, web search confirmations and long-term memory",
		RunE:  runTUI,
	}

	chatsCmd = &cobra.Command{
		Use:   "chats",
		Short: "Saved chat management commands",
	}

	listChatsCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved chats",
		RunE:  listChats,
	}

	deleteChatCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved chat",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteChatByID,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend server URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.Flags().StringVar(&personaID, "persona", "", "Persona to start the chat with")
	rootCmd.Flags().BoolVar(&webSearch, "web-search", true, "Allow the assistant to request web searches")
	rootCmd.Flags().StringVar(&searchProvider, "search-provider", "", "Search provider (brave or ddgs)")

	rootCmd.AddCommand(chatsCmd)
	chatsCmd.AddCommand(listChatsCmd)
	chatsCmd.AddCommand(deleteChatCmd)

	viper.BindPFlags(rootCmd.PersistentFlags())
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newClient() *api.Client {
	url := serverURL
	if url == "" {
		url = os.Getenv("PERSONA_CHAT_SERVER")
	}

	var opts []api.ClientOption
	if url != "" {
		opts = append(opts, api.WithBaseURL(url))
	}
	return api.NewClient(opts...)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if verbose {
		os.Setenv("PERSONA_CHAT_DEBUG", "true")
	}

	configManager, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	// Flags override the persisted settings for this run.
	settings := configManager.Settings()
	if cmd.Flags().Changed("web-search") {
		settings.WebSearchEnabled = webSearch
	}
	if searchProvider != "" {
		settings.Provider = searchProvider
	}
	if settings != configManager.Settings() {
		if err := configManager.Update(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	client := newClient()
	store := persona.NewStore(client)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Refresh(ctx); err != nil {
		// The backend may be up without personas configured yet; fall
		// back to a builtin default so the chat still works.
		if verbose {
			fmt.Printf("Warning: could not load personas: %v\n", err)
		}
	}

	active, exact := store.Get(personaID)
	if personaID != "" && !exact {
		fmt.Printf("Warning: persona %q not found, using %q\n", personaID, active.ID)
	}
	if active.ID == "" {
		active = chat.Persona{
			ID:       chat.DefaultPersonaID,
			Name:     "My AI Assistant",
			Greeting: "Hello! How can I help you today?",
		}
	}

	session := chat.NewSession(active)

	p := tea.NewProgram(
		tui.New(client, configManager, store, session),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func listChats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chats, err := newClient().ListChats(ctx)
	if err != nil {
		return fmt.Errorf("failed to list chats: %w", err)
	}
	if len(chats) == 0 {
		fmt.Println("No saved chats.")
		return nil
	}

	for _, c := range chats {
		persona := c.PersonaID
		if persona == "" {
			persona = chat.DefaultPersonaID
		}
		fmt.Printf("#%-4d %-50s %s\n", c.ID, c.Title, persona)
	}
	return nil
}

func deleteChatByID(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid chat id %q", args[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := newClient().DeleteChat(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	fmt.Printf("Deleted chat #%d\n", id)
	return nil
}
