package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Global flags
	serverURL string
	timeout   int

	// Ask flags
	role      string
	userID    string
	sessionID string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ask",
	Short:   "Query the CISNR research assistant",
	Version: version,
}

var questionCmd = &cobra.Command{
	Use:   "question <text>",
	Short: "Ask one question and print the answer",
	Long: `Ask one question and print the answer.

Examples:
  # Ask with the default researcher role
  ask question "What is CISNR?"

  # Ask as a specific role
  ask question --role admin "List current research programs"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuestion,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Print the service health document",
	RunE:  showHealth,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "assistant base URL")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 90, "request timeout in seconds")

	questionCmd.Flags().StringVar(&role, "role", "researcher", "caller role prefixed to the question")
	questionCmd.Flags().StringVar(&userID, "user-id", "", "caller identifier for server logs")
	questionCmd.Flags().StringVar(&sessionID, "session-id", "", "session identifier for server logs")

	rootCmd.AddCommand(questionCmd)
	rootCmd.AddCommand(healthCmd)
}

func newClient() *http.Client {
	return &http.Client{Timeout: time.Duration(timeout) * time.Second}
}

func runQuestion(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return fmt.Errorf("question text is required")
	}

	payload := map[string]string{
		"message": message,
		"role":    role,
	}
	if userID != "" {
		payload["user_id"] = userID
	}
	if sessionID != "" {
		payload["session_id"] = sessionID
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := newClient().Post(
		strings.TrimRight(serverURL, "/")+"/chat",
		"application/json",
		bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to reach assistant: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if body.Response != "" {
			fmt.Println(body.Response)
		}
		return fmt.Errorf("assistant returned status %d: %s", resp.StatusCode, body.Error)
	}

	fmt.Println(body.Response)
	return nil
}

func showHealth(cmd *cobra.Command, args []string) error {
	resp, err := newClient().Get(strings.TrimRight(serverURL, "/") + "/api/health")
	if err != nil {
		return fmt.Errorf("failed to reach assistant: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(pretty.String())

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service is degraded (status %d)", resp.StatusCode)
	}
	return nil
}
