package registry

import (
	"fmt"
	"testing"

	"github.com/Rierra/amongbot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHistoryCapFIFO(t *testing.T) {
	reg := New()

	for i := 0; i < 15; i++ {
		reg.AppendHistory("roomA", domain.HistoryEntry{
			Role:    domain.RoleUser,
			Content: fmt.Sprintf("message %d", i),
		})
	}

	history := reg.History("roomA")
	assert.Len(t, history, 10)
	assert.Equal(t, "message 5", history[0].Content, "oldest entries should be evicted first")
	assert.Equal(t, "message 14", history[9].Content)
}

func TestHistoryIsCopied(t *testing.T) {
	reg := New()
	reg.AppendHistory("roomA", domain.HistoryEntry{Role: domain.RoleUser, Content: "hello"})

	history := reg.History("roomA")
	history[0].Content = "mutated"

	assert.Equal(t, "hello", reg.History("roomA")[0].Content)
}

func TestAIEnabledDefaultsTrue(t *testing.T) {
	reg := New()

	assert.True(t, reg.AIEnabled("never-seen-before"))
}

func TestAIEnabledLastWriteWins(t *testing.T) {
	reg := New()

	reg.SetAIEnabled("roomA", false)
	assert.False(t, reg.AIEnabled("roomA"))

	reg.SetAIEnabled("roomA", true)
	assert.True(t, reg.AIEnabled("roomA"))

	// Other rooms are unaffected.
	assert.True(t, reg.AIEnabled("roomB"))
}

func TestReplySingleFlight(t *testing.T) {
	reg := New()

	assert.True(t, reg.TryAcquireReply("roomA"))
	assert.False(t, reg.TryAcquireReply("roomA"), "second acquire must fail while in flight")

	// Other rooms have their own slot.
	assert.True(t, reg.TryAcquireReply("roomB"))

	reg.ReleaseReply("roomA")
	assert.True(t, reg.TryAcquireReply("roomA"))
}

func TestAnalyzeStyleCounters(t *testing.T) {
	reg := New()

	reg.AnalyzeStyle("roomA", "yo bro that was LOWKEY great 😂, therefore I concur")
	counters := reg.Styles("roomA")
	assert.Equal(t, 1, counters.Casual, "multiple casual hits still count once")
	assert.Equal(t, 1, counters.Formal)
	assert.Equal(t, 1, counters.EmojiUsage)

	reg.AnalyzeStyle("roomA", "hence it follows")
	counters = reg.Styles("roomA")
	assert.Equal(t, 1, counters.Casual)
	assert.Equal(t, 2, counters.Formal)
	assert.Equal(t, 1, counters.EmojiUsage)
}

func TestAnalyzeStyleNoMatch(t *testing.T) {
	reg := New()

	reg.AnalyzeStyle("roomA", "a perfectly plain sentence")
	assert.Equal(t, StyleCounters{}, reg.Styles("roomA"))
}
