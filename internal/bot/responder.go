// Package bot turns user messages into in-character AI_Buddy replies.
package bot

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/Rierra/amongbot/internal/domain"
	"github.com/Rierra/amongbot/internal/humanize"
	"github.com/Rierra/amongbot/internal/llm"
	"github.com/Rierra/amongbot/internal/registry"
	"github.com/Rierra/amongbot/pkg/logger"
)

// FallbackReply is returned verbatim whenever the completion call fails.
// It stays in character; the user never sees an error.
const FallbackReply = "my phone glitched lol"

const persona = "You are a normal, friendly person in a group chat. " +
	"Never mention being AI or a bot. Keep responses short but not dismissive. " +
	"Be friendly but not overly enthusiastic. Be natural and balanced - not too " +
	"excited but not too disinterested either. Use casual language. Respond to " +
	"the content of messages. If asked a question, give a brief opinion or answer. " +
	"Occasionally use slang but not every message. Be a bit more engaged when " +
	"asked direct questions."

const (
	engagedInstruction  = " Give a proper answer to the question, but keep it casual and brief."
	neutralInstruction  = " Respond naturally without being dismissive. Don't just say 'ok' or 'whatever'."
	negativeInstruction = " They seem upset or negative. Be a bit more engaging without being defensive."
)

var (
	interrogatives = regexp.MustCompile(`(?i)\b(how|what|why|when|where|who|which|whose|whom)\b`)
	requestForms   = regexp.MustCompile(`(?i)\b(can you|do you|will you|could you|would you)\b`)
	negativeWords  = regexp.MustCompile(`(?i)\b(lame|boring|mean|stupid|bad|worst|hate|terrible)\b`)
)

// NeedsEngagement reports whether the message is a question or a direct
// request, meaning the bot should always answer rather than occasionally
// leaving it on read.
func NeedsEngagement(message string) bool {
	if strings.Contains(message, "?") {
		return true
	}
	return interrogatives.MatchString(message) || requestForms.MatchString(message)
}

// suppressChance is how often a non-question gets "seen" with no reply.
const suppressChance = 0.05

type Responder struct {
	client *llm.Client
	reg    *registry.Registry
	logg   logger.Logger

	// rng backs both the humanizer and the suppression draw. A seeded
	// source makes replies reproducible in tests; the mutex keeps
	// concurrent per-room replies from racing on it.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewResponder(client *llm.Client, reg *registry.Registry, rng *rand.Rand, logg logger.Logger) *Responder {
	return &Responder{client: client, reg: reg, rng: rng, logg: logg}
}

// Reply records the user message, asks the completion endpoint for a reply
// in context, and humanizes the result. An empty return means the bot saw
// the message and chose not to answer. Failures degrade to FallbackReply;
// no error escapes.
func (r *Responder) Reply(ctx context.Context, room, userMessage string) string {
	r.reg.AppendHistory(room, domain.HistoryEntry{Role: domain.RoleUser, Content: userMessage})
	r.reg.AnalyzeStyle(room, userMessage)

	engaged := NeedsEngagement(userMessage)

	instruction := neutralInstruction
	if engaged {
		instruction = engagedInstruction
	}
	if negativeWords.MatchString(userMessage) {
		instruction = negativeInstruction
	}

	history := r.reg.History(room)
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: domain.RoleSystem, Content: persona + instruction})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	raw, err := r.client.Complete(ctx, messages)
	if err != nil {
		r.logg.Errorf("completion failed for room %s: %v", room, err)
		return FallbackReply
	}

	r.mu.Lock()
	reply := humanize.Tweak(r.rng, raw)
	suppress := !engaged && r.rng.Float64() < suppressChance
	r.mu.Unlock()

	r.reg.AppendHistory(room, domain.HistoryEntry{Role: domain.RoleAssistant, Content: reply})
	r.reg.AnalyzeStyle(room, reply)

	if suppress {
		return ""
	}
	return reply
}
