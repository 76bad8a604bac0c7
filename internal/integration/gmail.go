package integration

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

// unreadQuery selects the messages the poller forwards for ingestion.
const unreadQuery = "is:unread in:inbox"

// GmailPoller watches a Gmail inbox for unread messages and forwards
// each one to the ingestion endpoint. Forwarded messages are marked
// read so they are processed exactly once.
type GmailPoller struct {
	cfg    models.GmailConfig
	logger *zap.Logger
	client *http.Client

	// processed guards against re-forwarding a message when marking it
	// read fails; the next poll would otherwise return it again.
	processed map[string]struct{}
}

// NewGmailPoller creates a poller for the given Gmail configuration.
func NewGmailPoller(cfg models.GmailConfig, logger *zap.Logger) *GmailPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GmailPoller{
		cfg:       cfg,
		logger:    logger,
		client:    &http.Client{Timeout: 30 * time.Second},
		processed: make(map[string]struct{}),
	}
}

// Run polls the inbox until the context is cancelled. Errors inside a
// poll cycle are logged and the loop continues; only a failure to
// authenticate at startup aborts.
func (p *GmailPoller) Run(ctx context.Context) error {
	svc, err := p.newService(ctx)
	if err != nil {
		return fmt.Errorf("starting gmail poller: %w", err)
	}

	p.logger.Info("gmail poller started",
		zap.Duration("interval", p.cfg.PollInterval),
		zap.String("ingest_url", p.cfg.IngestURL))

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if count, err := p.pollOnce(ctx, svc); err != nil {
			p.logger.Warn("poll cycle failed", zap.Error(err))
		} else if count > 0 {
			p.logger.Info("forwarded emails", zap.Int("count", count))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newService builds the Gmail API service from the configured OAuth
// credentials and cached token.
func (p *GmailPoller) newService(ctx context.Context) (*gmail.Service, error) {
	creds, err := os.ReadFile(p.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file %s: %w", p.cfg.CredentialsFile, err)
	}

	oauthCfg, err := google.ConfigFromJSON(creds, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	token, err := loadToken(p.cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("loading token (run the OAuth flow and save %s first): %w", p.cfg.TokenFile, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return svc, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening token file: %w", err)
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}
	return token, nil
}

// pollOnce lists unread inbox messages and forwards each new one.
func (p *GmailPoller) pollOnce(ctx context.Context, svc *gmail.Service) (int, error) {
	list, err := svc.Users.Messages.List("me").Q(unreadQuery).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("listing unread messages: %w", err)
	}

	forwarded := 0
	for _, ref := range list.Messages {
		if _, seen := p.processed[ref.Id]; seen {
			continue
		}

		msg, err := svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			p.logger.Warn("fetching message failed", zap.String("id", ref.Id), zap.Error(err))
			continue
		}

		email := messageToEmail(msg)
		if err := p.forward(ctx, email); err != nil {
			p.logger.Warn("forwarding message failed",
				zap.String("id", ref.Id),
				zap.String("subject", email.Subject),
				zap.Error(err))
			continue
		}

		p.processed[ref.Id] = struct{}{}
		forwarded++

		if err := p.markRead(ctx, svc, ref.Id); err != nil {
			p.logger.Warn("marking message read failed", zap.String("id", ref.Id), zap.Error(err))
		}
	}
	return forwarded, nil
}

// messageToEmail extracts subject, sender, and the plain-text body from
// a full-format Gmail message.
func messageToEmail(msg *gmail.Message) models.EmailMessage {
	email := models.EmailMessage{Subject: "No Subject"}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch header.Name {
			case "Subject":
				if header.Value != "" {
					email.Subject = header.Value
				}
			case "From":
				email.Sender = header.Value
			}
		}
		email.Body = strings.TrimSpace(extractPlainText(msg.Payload))
	}

	if email.Body == "" {
		email.Body = msg.Snippet
	}
	return email
}

// extractPlainText walks the MIME tree for the first text/plain part.
func extractPlainText(part *gmail.MessagePart) string {
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		// The API serves unpadded base64url, but padded data shows up too.
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(part.Body.Data, "="))
		if err != nil {
			return ""
		}
		return string(decoded)
	}
	for _, child := range part.Parts {
		if text := extractPlainText(child); text != "" {
			return text
		}
	}
	return ""
}

// forward posts the email payload to the ingestion endpoint.
func (p *GmailPoller) forward(ctx context.Context, email models.EmailMessage) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("marshalling ingest payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.IngestURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building ingest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to ingest endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ingest endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *GmailPoller) markRead(ctx context.Context, svc *gmail.Service, id string) error {
	_, err := svc.Users.Messages.Modify("me", id, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("removing UNREAD label: %w", err)
	}
	return nil
}
