package registry

import "regexp"

var (
	casualWords = regexp.MustCompile(`(?i)\b(bro|lol|nah|yo|dawg|gonna|lowkey)\b`)
	formalWords = regexp.MustCompile(`(?i)\b(therefore|hence|indeed|moreover|furthermore)\b`)
	emojiMarks  = regexp.MustCompile(`[😂🔥👍💀🤣💯🎉🎊😅]`)
)

// AnalyzeStyle scans one message for tone markers and bumps the room's
// counters. A message can match more than one category, but multiple hits
// within one category still count once.
func (r *Registry) AnalyzeStyle(name, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm := r.get(name)
	if casualWords.MatchString(text) {
		rm.style.Casual++
	}
	if formalWords.MatchString(text) {
		rm.style.Formal++
	}
	if emojiMarks.MatchString(text) {
		rm.style.EmojiUsage++
	}
}
