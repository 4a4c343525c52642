package emoji

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":     {"❌", "[ERR]"},
	"warning":   {"⚠️", "[WRN]"},
	"info":      {"ℹ️", "[INF]"},
	"success":   {"✅", "[OK]"},
	"leaf":      {"🌿", "[LEAF]"},
	"disease":   {"🦠", "[DX]"},
	"treatment": {"💊", "[RX]"},
	"tip":       {"💡", "[TIP]"},
	"upload":    {"📤", "[UP]"},
	"image":     {"🖼️", "[IMG]"},
	"crop":      {"✂️", "[CROP]"},
	"history":   {"📋", "[HIST]"},
	"celebrate": {"🎉", "[***]"},
	"share":     {"📎", "[COPY]"},
	"download":  {"💾", "[SAVE]"},
	"sun":       {"☀️", "[LIGHT]"},
	"moon":      {"🌙", "[DARK]"},
	"thumbs_up": {"👍", "[+]"},
	"thumbs_dn": {"👎", "[-]"},
	"help":      {"❓", "[?]"},
	"door":      {"🚪", "[EXIT]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]" // unknown key
}

// ThemeIcon returns the icon for the palette that a toggle would switch to
func ThemeIcon(dark bool) string {
	if dark {
		return GetEmoji("sun")
	}
	return GetEmoji("moon")
}
