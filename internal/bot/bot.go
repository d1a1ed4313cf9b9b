package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Rrens/business-assistant/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const (
	// maxDownloadSize bounds documents fetched from Telegram
	maxDownloadSize = 1 << 20

	downloadTimeout = 30 * time.Second
)

// Bot turns Telegram updates into service calls
type Bot struct {
	api    Sender
	svc    Services
	states *StateStore
	http   *http.Client
}

// New creates a bot. A nil states store gets a fresh one with a 30 minute TTL.
func New(api Sender, svc Services, states *StateStore) *Bot {
	if states == nil {
		states = NewStateStore(30 * time.Minute)
	}
	return &Bot{
		api:    api,
		svc:    svc,
		states: states,
		http:   &http.Client{Timeout: downloadTimeout},
	}
}

// Run consumes long-polling updates until ctx is cancelled or the channel closes.
// Updates are handled concurrently; Run waits for in-flight handlers before returning.
// With a nil channel (webhook mode) it only expires idle dialogs.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Bot polling stopped")
			return nil
		case <-sweep.C:
			if n := b.states.Sweep(); n > 0 {
				log.Debug().Int("dialogs", n).Msg("Expired dialogs dropped")
			}
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate processes one update. It never panics.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int("update_id", update.UpdateID).Msg("Recovered from panic while handling update")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if !b.allow(ctx, msg.From.ID, chatID) {
		return
	}

	user, err := b.identify(ctx, msg.From)
	if err != nil {
		b.fail(chatID, "identify user", err)
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, user, msg)
	case msg.Document != nil:
		b.handleDocument(ctx, user, chatID, msg.Document)
	case msg.Text != "":
		b.handleText(ctx, user, chatID, msg.Text)
	}
}

// identify registers first-time users and refreshes last activity
func (b *Bot) identify(ctx context.Context, from *tgbotapi.User) (*domain.User, error) {
	user, created, err := b.svc.Users.GetOrCreate(ctx, domain.UserIdentity{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	})
	if err != nil {
		return nil, err
	}
	if created {
		log.Info().Int64("user_id", user.ID).Msg("New user registered")
	}
	return user, nil
}

// allow applies the per-user rate limit. Limiter failures let the update through.
func (b *Bot) allow(ctx context.Context, userID, chatID int64) bool {
	if b.svc.Limiter == nil {
		return true
	}

	ok, _, _, err := b.svc.Limiter.Allow(ctx, "bot:"+strconv.FormatInt(userID, 10))
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Rate limiter unavailable, allowing update")
		return true
	}
	if !ok {
		b.send(chatID, userMessage(domain.ErrRateLimited), nil)
	}
	return ok
}

// send delivers HTML text, split into several messages when it is too long.
// The markup is attached to the last chunk.
func (b *Bot) send(chatID int64, text string, markup any) {
	chunks := splitMessage(text)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		if i == len(chunks)-1 && markup != nil {
			msg.ReplyMarkup = markup
		}
		if _, err := b.api.Send(msg); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
			return
		}
	}
}

// edit replaces a message in place, falling back to a new message when Telegram refuses
func (b *Bot) edit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	if utf8Len(text) > maxMessageLen {
		b.send(chatID, text, markup)
		return
	}

	var msg tgbotapi.EditMessageTextConfig
	if markup != nil {
		msg = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
	} else {
		msg = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := b.api.Send(msg); err != nil {
		log.Debug().Err(err).Int64("chat_id", chatID).Msg("Edit failed, sending a new message")
		if markup != nil {
			b.send(chatID, text, *markup)
		} else {
			b.send(chatID, text, nil)
		}
	}
}

// fail logs err and tells the user in a short message
func (b *Bot) fail(chatID int64, action string, err error) {
	event := log.Error()
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
		event = log.Warn()
	}
	event.Err(err).Int64("chat_id", chatID).Str("action", action).Msg("Bot action failed")
	b.send(chatID, userMessage(err), nil)
}

// download fetches a Telegram file, rejecting anything above maxDownloadSize
func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, maxDownloadSize)
	}
	return data, nil
}
