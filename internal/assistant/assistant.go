// Package assistant runs pepper's conversational layer: Claude with typed
// tools that route through the distributor. Without an API key it degrades
// to direct intent routing, so the chat surface keeps working offline.
package assistant

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"pepper/internal/dispatch"
	"pepper/internal/intent"
	"pepper/internal/store"
	"pepper/internal/tools"
)

const (
	defaultModel     = anthropic.ModelClaude3_5HaikuLatest
	defaultMaxTokens = 4096
)

// Options configures the assistant.
type Options struct {
	Detector    *intent.Detector
	Distributor *dispatch.Distributor
	Store       *store.Store
	APIKey      string // empty falls back to the environment, then to intent-only mode
	BaseURL     string
	Model       anthropic.Model
	Logger      *log.Logger
}

type Assistant struct {
	detector    *intent.Detector
	distributor *dispatch.Distributor
	store       *store.Store
	client      *anthropic.Client // nil in intent-only mode
	model       anthropic.Model
	persona     Persona
	logger      *log.Logger
}

// New builds an assistant. Credentials resolve from Options first, then from
// ANTHROPIC_AUTH_TOKEN / ANTHROPIC_API_KEY and ANTHROPIC_BASE_URL.
func New(opts Options) *Assistant {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_AUTH_TOKEN")
	}
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("ANTHROPIC_BASE_URL")
	}

	var client *anthropic.Client
	if apiKey != "" {
		clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if baseURL != "" {
			clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
		}
		c := anthropic.NewClient(clientOpts...)
		client = &c
	} else {
		logger.Printf("[assistant] no API key configured, running in intent-only mode")
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}

	persona, err := LoadPersona()
	if err != nil {
		logger.Printf("[assistant] persona: %v", err)
	}

	return &Assistant{
		detector:    opts.Detector,
		distributor: opts.Distributor,
		store:       opts.Store,
		client:      client,
		model:       model,
		persona:     persona,
		logger:      logger,
	}
}

// Ready reports whether the Claude-backed chat loop is available.
func (a *Assistant) Ready() bool {
	return a.client != nil
}

// Chat processes one user message within a persistent session and returns
// the reply. The session is loaded from disk, updated and saved back.
func (a *Assistant) Chat(ctx context.Context, sessionID, userID, message string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("message is required")
	}
	if sessionID == "" {
		sessionID = "default"
	}

	if a.client == nil {
		return a.chatFallback(ctx, userID, message)
	}

	session, err := LoadSession(sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	session.Messages = append(session.Messages,
		anthropic.NewBetaUserMessage(anthropic.NewBetaTextBlock(message)),
	)

	toolset, err := a.buildTools(userID)
	if err != nil {
		return "", fmt.Errorf("build tools: %w", err)
	}

	runner := a.client.Beta.Messages.NewToolRunner(toolset, anthropic.BetaToolRunnerParams{
		BetaMessageNewParams: anthropic.BetaMessageNewParams{
			Model:     a.model,
			MaxTokens: defaultMaxTokens,
			System: []anthropic.BetaTextBlockParam{
				{Text: a.buildSystemPrompt()},
			},
			Messages: session.Messages,
		},
	})

	msg, err := runner.RunToCompletion(ctx)
	if err != nil {
		return "", fmt.Errorf("run assistant: %w", err)
	}

	reply := extractText(msg)

	// Persist the full history from the runner, tool calls included.
	session.Messages = runner.Messages()
	if saveErr := session.Save(); saveErr != nil {
		a.logger.Printf("[assistant] session save failed: %v", saveErr)
	}

	return reply, nil
}

// buildSystemPrompt assembles the persona, the date context and the tool
// guidelines into one prompt.
func (a *Assistant) buildSystemPrompt() string {
	var sb strings.Builder

	name := a.persona.Name
	if name == "" {
		name = "Pepper"
	}
	sb.WriteString(fmt.Sprintf("Je bent %s, de persoonlijke assistent van de gebruiker. "+
		"Je beheert agenda's, taken, notities en contacten via je tools.\n", name))
	if a.persona.Language != "" {
		sb.WriteString("Antwoord in taal: " + a.persona.Language + "\n")
	}
	if a.persona.Style != "" {
		sb.WriteString("Stijl: " + a.persona.Style + "\n")
	}
	for _, instruction := range a.persona.Instructions {
		sb.WriteString("- " + instruction + "\n")
	}

	// -- Date context --
	// Injected so the model never does date arithmetic itself.
	dc := a.detector.DateContext()
	sb.WriteString("\n## Datumcontext\n")
	sb.WriteString(fmt.Sprintf("Nu: %s (%s)\n", dc.Now, dc.Timezone))
	sb.WriteString(fmt.Sprintf("Vandaag: %s (%s)\n", dc.Today, dc.TodayName))
	sb.WriteString("Komende week:\n")
	for _, day := range dc.Week {
		line := fmt.Sprintf("- %s %s", day.Day, day.ISO)
		if day.Label != "" {
			line += " (" + day.Label + ")"
		}
		sb.WriteString(line + "\n")
	}

	// -- Usage guidelines --
	sb.WriteString(`
## Werkwijze
- Agenda-items en reminders gaan naar de agenda van de gebruiker (google of microsoft); laat provider weg tenzij de gebruiker er een noemt
- Taken, notities en contacten worden lokaal bewaard
- Gebruik altijd ISO-datums (YYYY-MM-DD) en 24-uurs tijden (HH:MM) in tool-aanroepen
- Zet losse gedachten of onduidelijke verzoeken met save_to_inbox in de inbox
- Vraag door als een afspraak geen datum of tijd heeft

Houd antwoorden kort. Bevestig wat je hebt aangemaakt of gewijzigd.`)

	return sb.String()
}

// chatFallback routes without Claude: the detector classifies the message
// and safe calls go straight through the distributor. External writes need
// real extraction, so those land in the inbox instead.
func (a *Assistant) chatFallback(ctx context.Context, userID, message string) (string, error) {
	detected := a.detector.Detect(message)

	tool, params := fallbackCall(detected)
	if tool == "" {
		if _, err := a.store.CreateInboxItem(ctx, store.CreateInboxOpts{
			UserID:  userID,
			Content: message,
			Source:  "chat",
		}); err != nil {
			return "", fmt.Errorf("capture inbox: %w", err)
		}
		return "Ik heb dit in je inbox gezet.", nil
	}

	result := a.distributor.RouteAndExecute(ctx, dispatch.Call{
		Tool:          tool,
		Params:        params,
		Provider:      detected.Provider,
		UserID:        userID,
		InputSource:   "chat",
		OriginalInput: message,
	})
	if !result.Success {
		return "Dat is niet gelukt: " + result.Error, nil
	}
	if msg, ok := result.Data["message"].(string); ok && msg != "" {
		return msg, nil
	}
	return "Gedaan.", nil
}

// fallbackCall maps a detected intent to a direct tool call. Only internal
// tools and read-only calendar queries qualify; everything else returns ""
// and is captured to the inbox.
func fallbackCall(d intent.Detected) (string, tools.Params) {
	text := commandText(d.RawInput)
	params := tools.Params{}

	switch d.Type {
	case intent.TaskCreate:
		if text == "" {
			return "", nil
		}
		params["title"] = text
		if due, ok := d.Params["date_hint"]; ok {
			params["due_date"] = due
		}
		return "create_task", params

	case intent.NoteCreate:
		if text == "" {
			return "", nil
		}
		params["title"] = text
		return "create_note", params

	case intent.CalendarList:
		if date, ok := d.Params["date_hint"]; ok {
			params["date"] = date
		}
		return "list_calendar_events", params
	}

	return "", nil
}

// commandText strips a leading #command word, leaving the payload.
func commandText(input string) string {
	text := strings.TrimSpace(input)
	if !strings.HasPrefix(text, "#") {
		return text
	}
	if i := strings.IndexAny(text, " \t"); i > 0 {
		return strings.TrimSpace(text[i:])
	}
	return ""
}

// extractText pulls all text blocks from the assistant message into a single string.
func extractText(msg *anthropic.BetaMessage) string {
	if msg == nil {
		return ""
	}
	var parts []string
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.BetaTextBlock); ok && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
