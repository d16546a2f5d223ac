package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/proshka/feedback-bot/pkg/staging"
	"github.com/proshka/feedback-bot/pkg/telegram"
)

const maxPhotos = 10

const (
	promptRating     = "🔹 Rate the app from 1 to 10:"
	promptBadRating  = "❌ Please choose a rating from 1 to 10!"
	promptComment    = "📝 Write a comment (or /skip to skip it). You can attach up to 10 screenshots:"
	promptNeedInput  = "ℹ️ Please send text or a photo"
	noticePhotoLimit = "ℹ️ The limit of 10 photos has been reached. Additional photos will not be saved."
	noticeThanks     = "✅ Thank you for your feedback!"
	noticeSaveFailed = "❌ Could not save your feedback. Please try again later."
	noticeInternal   = "❌ Something went wrong. Please send /start to try again."
)

var ratingButtons = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

// Replier sends outbound messages for the machine.
type Replier interface {
	Reply(chatID int64, text string) error
	ReplyWithKeyboard(chatID int64, text string, buttons []string) error
}

// Stager turns an inbound photo into a public link.
type Stager interface {
	StageAndUpload(ctx context.Context, src staging.Source, ownerID int64) (string, error)
}

// RowAppender persists one finalized feedback row.
type RowAppender interface {
	AppendRow(ctx context.Context, values []interface{}) error
}

type state int

const (
	awaitingRating state = iota
	awaitingComment
)

// scratch is the per-conversation accumulator. It exists only between /start
// and the end of the dialogue and is deleted unconditionally on completion or
// fatal error.
type scratch struct {
	state        state
	rating       string
	comment      string
	photoLinks   []string
	limitNoticed bool
}

// Machine tracks every active feedback conversation and advances each one
// event by event.
type Machine struct {
	replier Replier
	stager  Stager
	rows    RowAppender
	now     func() time.Time

	mu            sync.Mutex
	conversations map[int64]*scratch
}

// NewMachine creates a new conversation state machine
func NewMachine(replier Replier, stager Stager, rows RowAppender) *Machine {
	return &Machine{
		replier:       replier,
		stager:        stager,
		rows:          rows,
		now:           time.Now,
		conversations: make(map[int64]*scratch),
	}
}

// HandleEvent advances one conversation by one inbound event. Any error
// returned by a transition ends that dialogue: the user gets a generic
// failure notice and the scratch state is discarded.
func (m *Machine) HandleEvent(ctx context.Context, ev telegram.Event) {
	var meta telegram.Meta
	var err error

	switch e := ev.(type) {
	case telegram.CommandEvent:
		meta = e.Meta
		err = m.handleCommand(ctx, e)
	case telegram.TextEvent:
		meta = e.Meta
		err = m.handleText(ctx, e)
	case telegram.PhotoEvent:
		meta = e.Meta
		err = m.handlePhotos(ctx, e)
	default:
		return
	}

	if err != nil {
		log.Printf("chat %d: conversation aborted: %v", meta.ChatID, err)
		m.drop(meta.ChatID)
		if rerr := m.replier.Reply(meta.ChatID, noticeInternal); rerr != nil {
			log.Printf("chat %d: failed to send failure notice: %v", meta.ChatID, rerr)
		}
	}
}

func (m *Machine) handleCommand(ctx context.Context, e telegram.CommandEvent) error {
	switch e.Name {
	case "start":
		m.mu.Lock()
		m.conversations[e.ChatID] = &scratch{state: awaitingRating}
		m.mu.Unlock()
		if err := m.replier.ReplyWithKeyboard(e.ChatID, promptRating, ratingButtons); err != nil {
			return fmt.Errorf("rating prompt: %w", err)
		}
	case "skip":
		s := m.get(e.ChatID)
		if s == nil || s.state != awaitingComment {
			return nil
		}
		// Skip wins over anything accumulated so far.
		return m.finalize(ctx, e.Meta, s, sentinelSkipped)
	}
	return nil
}

func (m *Machine) handleText(ctx context.Context, e telegram.TextEvent) error {
	s := m.get(e.ChatID)
	if s == nil {
		return nil
	}
	switch s.state {
	case awaitingRating:
		n, err := strconv.Atoi(e.Body)
		if err != nil || n < 1 || n > 10 {
			if rerr := m.replier.Reply(e.ChatID, promptBadRating); rerr != nil {
				return fmt.Errorf("rating re-prompt: %w", rerr)
			}
			return nil
		}
		s.rating = strconv.Itoa(n)
		s.state = awaitingComment
		if err := m.replier.Reply(e.ChatID, promptComment); err != nil {
			return fmt.Errorf("comment prompt: %w", err)
		}
		return nil
	case awaitingComment:
		s.comment = e.Body
		return m.settle(ctx, e.Meta, s)
	}
	return nil
}

func (m *Machine) handlePhotos(ctx context.Context, e telegram.PhotoEvent) error {
	s := m.get(e.ChatID)
	if s == nil || s.state != awaitingComment {
		return nil
	}
	// Caption and plain text fill the same field, last write wins.
	if e.Caption != "" {
		s.comment = e.Caption
	}
	for _, photo := range e.Photos {
		if len(s.photoLinks) >= maxPhotos {
			if !s.limitNoticed {
				s.limitNoticed = true
				if err := m.replier.Reply(e.ChatID, noticePhotoLimit); err != nil {
					return fmt.Errorf("limit notice: %w", err)
				}
			}
			break
		}
		link, err := m.stager.StageAndUpload(ctx, photo, e.User.ID)
		if err != nil {
			return fmt.Errorf("photo %s: %w", photo.ID(), err)
		}
		s.photoLinks = append(s.photoLinks, link)
	}
	return m.settle(ctx, e.Meta, s)
}

// settle decides, after a comment-phase message was processed, between
// re-prompting and finalizing. Any message that leaves text or photos behind
// ends the dialogue.
func (m *Machine) settle(ctx context.Context, meta telegram.Meta, s *scratch) error {
	if s.comment == "" && len(s.photoLinks) == 0 {
		if err := m.replier.Reply(meta.ChatID, promptNeedInput); err != nil {
			return fmt.Errorf("input re-prompt: %w", err)
		}
		return nil
	}
	return m.finalize(ctx, meta, s, "")
}

// finalize builds the feedback record, persists it and clears the scratch
// state unconditionally. commentOverride replaces the composed comment on the
// skip path.
func (m *Machine) finalize(ctx context.Context, meta telegram.Meta, s *scratch, commentOverride string) error {
	comment := commentOverride
	if comment == "" {
		comment = composeComment(s.comment, s.photoLinks)
	}
	rec := Record{
		UserID:      meta.User.ID,
		Username:    meta.User.Username,
		FirstName:   meta.User.FirstName,
		Rating:      s.rating,
		Comment:     comment,
		SubmittedAt: m.now(),
	}

	// The attempt is never retried or queued, so the scratch state goes
	// away no matter how persistence turns out.
	m.drop(meta.ChatID)

	if err := m.rows.AppendRow(ctx, rec.Values()); err != nil {
		log.Printf("chat %d: failed to persist feedback: %v", meta.ChatID, err)
		if rerr := m.replier.Reply(meta.ChatID, noticeSaveFailed); rerr != nil {
			log.Printf("chat %d: failed to send save-failure notice: %v", meta.ChatID, rerr)
		}
		return nil
	}

	if err := m.replier.Reply(meta.ChatID, noticeThanks); err != nil {
		log.Printf("chat %d: failed to send acknowledgment: %v", meta.ChatID, err)
	}
	return nil
}

func (m *Machine) get(chatID int64) *scratch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conversations[chatID]
}

func (m *Machine) drop(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, chatID)
}
